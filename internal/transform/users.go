package transform

import (
	"regexp"
	"strings"
	"time"

	"ecommerce-etl/internal/records"
)

const (
	minAge = 0
	maxAge = 120

	birthDateLayout = "2006-1-2"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

var genderAliases = map[string]string{
	"m":      "male",
	"f":      "female",
	"male":   "male",
	"female": "female",
}

type userKey struct {
	email, username, cpf, cnpj nullable
}

var userPipeline = Pipeline[records.RawUser]{
	Entity: "users",
	Required: []string{
		"firstName", "lastName", "username", "email", "password", "address",
		"age", "height", "weight", "gender", "phone", "birthDate",
	},
	Steps: []Step[records.RawUser]{
		Rewrite("project address", projectAddress),
		Each("drop missing values", userMissingValues),
		DropDuplicates("drop duplicates", func(u *records.RawUser) userKey {
			return userKey{
				email:    nullableOf(u.Email),
				username: nullableOf(u.Username),
				cpf:      nullableOf(u.CPF),
				cnpj:     nullableOf(u.CNPJ),
			}
		}),
		Each("clean first names", func(u *records.RawUser) Verdict {
			return cleanName(&u.FirstName, "invalid first name")
		}),
		Each("clean last names", func(u *records.RawUser) Verdict {
			return cleanName(&u.LastName, "invalid last name")
		}),
		Each("clean maiden names", cleanMaidenName),
		Each("drop inconsistent values", userRanges),
		Each("parse gender", parseGender),
		Each("clean phone numbers", cleanPhone),
		Rewrite("clean username", func(u *records.RawUser) {
			u.Username = ptr(strings.ToLower(strings.TrimSpace(*u.Username)))
		}),
		Rewrite("clean user fields", trimUserFields),
		Each("clean email", cleanEmail),
		Each("parse birth date", parseBirthDate),
	},
}

// CleanUsers runs the user cleaning steps and returns the surviving users.
func CleanUsers(batch *records.Batch[records.RawUser], obs Observer) ([]records.User, error) {
	rows, err := userPipeline.Run(batch, obs)
	if err != nil {
		return nil, err
	}
	users := make([]records.User, 0, len(rows))
	for i := range rows {
		users = append(users, toUser(&rows[i]))
	}
	return users, nil
}

func projectAddress(u *records.RawUser) {
	if u.Address == nil {
		return
	}
	u.City = u.Address.City
	u.State = u.Address.State
	u.Country = u.Address.Country
}

func userMissingValues(u *records.RawUser) Verdict {
	if u.ID == nil {
		return Drop("missing id")
	}
	required := []struct {
		name  string
		value *string
	}{
		{"firstName", u.FirstName},
		{"lastName", u.LastName},
		{"username", u.Username},
		{"email", u.Email},
		{"password", u.Password},
		{"city", u.City},
		{"state", u.State},
		{"country", u.Country},
	}
	for _, f := range required {
		if f.value == nil {
			return Drop("missing " + f.name)
		}
	}
	return Keep
}

func cleanName(name **string, reason string) Verdict {
	if *name == nil || !validName(**name) {
		return Drop(reason)
	}
	*name = ptr(capitalize(**name))
	return Keep
}

// Maiden names are optional; only a non-empty one is validated.
func cleanMaidenName(u *records.RawUser) Verdict {
	if u.MaidenName == nil {
		return Keep
	}
	if *u.MaidenName != "" && !lettersOnly(*u.MaidenName) {
		return Drop("invalid maiden name")
	}
	u.MaidenName = ptr(capitalize(*u.MaidenName))
	return Keep
}

func userRanges(u *records.RawUser) Verdict {
	if !within(u.Age, minAge, maxAge) {
		return Drop("age out of range")
	}
	if !atLeast(u.Height, 0) {
		return Drop("negative height")
	}
	if !atLeast(u.Weight, 0) {
		return Drop("negative weight")
	}
	return Keep
}

func parseGender(u *records.RawUser) Verdict {
	if u.Gender == nil {
		return Drop("unknown gender")
	}
	gender, ok := genderAliases[strings.ToLower(strings.TrimSpace(*u.Gender))]
	if !ok {
		return Drop("unknown gender")
	}
	u.Gender = &gender
	return Keep
}

func cleanPhone(u *records.RawUser) Verdict {
	if u.Phone == nil {
		return Drop("missing phone")
	}
	phone := strings.TrimSpace(*u.Phone)
	if !strings.HasPrefix(phone, "+") {
		return Drop("phone without country code")
	}
	u.Phone = &phone
	return Keep
}

func trimUserFields(u *records.RawUser) {
	for _, f := range []**string{
		&u.Image, &u.BloodGroup, &u.EyeColor, &u.IP, &u.MacAddress,
		&u.University, &u.UserAgent, &u.Role, &u.CNPJ,
	} {
		if *f != nil {
			*f = ptr(strings.TrimSpace(**f))
		}
	}
}

func cleanEmail(u *records.RawUser) Verdict {
	email := strings.ToLower(strings.TrimSpace(*u.Email))
	if !emailPattern.MatchString(email) {
		return Drop("invalid email")
	}
	u.Email = &email
	return Keep
}

func parseBirthDate(u *records.RawUser) Verdict {
	if u.BirthDate == nil {
		return Drop("invalid birth date")
	}
	born, err := time.Parse(birthDateLayout, strings.TrimSpace(*u.BirthDate))
	if err != nil {
		return Drop("invalid birth date")
	}
	u.Born = born
	return Keep
}

func toUser(u *records.RawUser) records.User {
	return records.User{
		ID:         *u.ID,
		FirstName:  *u.FirstName,
		LastName:   *u.LastName,
		MaidenName: deref(u.MaidenName),
		Age:        int(*u.Age),
		Gender:     *u.Gender,
		Email:      *u.Email,
		Phone:      *u.Phone,
		Username:   *u.Username,
		Password:   *u.Password,
		BirthDate:  u.Born,
		Image:      deref(u.Image),
		BloodGroup: deref(u.BloodGroup),
		Height:     *u.Height,
		Weight:     *u.Weight,
		EyeColor:   deref(u.EyeColor),
		IP:         deref(u.IP),
		MacAddress: deref(u.MacAddress),
		University: deref(u.University),
		UserAgent:  deref(u.UserAgent),
		Role:       deref(u.Role),
		City:       *u.City,
		State:      *u.State,
		Country:    *u.Country,
	}
}
