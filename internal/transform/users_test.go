package transform

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-etl/internal/records"
)

var userColumns = []string{
	"id", "firstName", "lastName", "maidenName", "age", "gender", "email", "phone",
	"username", "password", "birthDate", "height", "weight", "cpf", "cnpj", "address",
}

func validUser(id int64) records.RawUser {
	return records.RawUser{
		ID:        ptr(id),
		FirstName: ptr(" maria "),
		LastName:  ptr("SILVA"),
		Age:       ptr(34.0),
		Gender:    ptr(" F "),
		Email:     ptr("  Maria.Silva@Example.COM "),
		Phone:     ptr(" +55 11 99999-0000"),
		Username:  ptr(" MSilva "),
		Password:  ptr("secret"),
		BirthDate: ptr("1990-4-2"),
		Height:    ptr(165.5),
		Weight:    ptr(60.0),
		CPF:       ptr("123.456.789-00"),
		Address: &records.RawAddress{
			City:    ptr("São Paulo"),
			State:   ptr("SP"),
			Country: ptr("Brazil"),
		},
	}
}

func cleanUsers(t *testing.T, rows ...records.RawUser) ([]records.User, *recorder) {
	t.Helper()
	rec := newRecorder()
	users, err := CleanUsers(records.NewBatch(rows, userColumns...), rec)
	require.NoError(t, err)
	return users, rec
}

func TestCleanUsersNormalizes(t *testing.T) {
	users, rec := cleanUsers(t, validUser(1))
	require.Len(t, users, 1)
	assert.Zero(t, rec.total())

	u := users[0]
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Maria", u.FirstName)
	assert.Equal(t, "Silva", u.LastName)
	assert.Equal(t, 34, u.Age)
	assert.Equal(t, "female", u.Gender)
	assert.Equal(t, "maria.silva@example.com", u.Email)
	assert.Equal(t, "+55 11 99999-0000", u.Phone)
	assert.Equal(t, "msilva", u.Username)
	assert.Equal(t, time.Date(1990, time.April, 2, 0, 0, 0, 0, time.UTC), u.BirthDate)
	assert.Equal(t, "São Paulo", u.City)
	assert.Equal(t, "SP", u.State)
	assert.Equal(t, "Brazil", u.Country)
}

func TestCleanUsersAccentedNames(t *testing.T) {
	u := validUser(1)
	u.FirstName = ptr("joão pedro")
	u.LastName = ptr("ÇELIK")
	u.MaidenName = ptr("  müller ")

	users, _ := cleanUsers(t, u)
	require.Len(t, users, 1)
	assert.Equal(t, "João pedro", users[0].FirstName)
	assert.Equal(t, "Çelik", users[0].LastName)
	assert.Equal(t, "Müller", users[0].MaidenName)
}

func TestCleanUsersDrops(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *records.RawUser)
		step   string
		reason string
	}{
		{"no address", func(u *records.RawUser) { u.Address = nil }, "drop missing values", "missing city"},
		{"no email", func(u *records.RawUser) { u.Email = nil }, "drop missing values", "missing email"},
		{"one letter first name", func(u *records.RawUser) { u.FirstName = ptr(" J ") }, "clean first names", "invalid first name"},
		{"digits in last name", func(u *records.RawUser) { u.LastName = ptr("S1lva") }, "clean last names", "invalid last name"},
		{"bad maiden name", func(u *records.RawUser) { u.MaidenName = ptr("Sm!th") }, "clean maiden names", "invalid maiden name"},
		{"too old", func(u *records.RawUser) { u.Age = ptr(121.0) }, "drop inconsistent values", "age out of range"},
		{"negative age", func(u *records.RawUser) { u.Age = ptr(-1.0) }, "drop inconsistent values", "age out of range"},
		{"negative height", func(u *records.RawUser) { u.Height = ptr(-0.5) }, "drop inconsistent values", "negative height"},
		{"NaN age", func(u *records.RawUser) { u.Age = ptr(math.NaN()) }, "drop inconsistent values", "age out of range"},
		{"NaN height", func(u *records.RawUser) { u.Height = ptr(math.NaN()) }, "drop inconsistent values", "negative height"},
		{"NaN weight", func(u *records.RawUser) { u.Weight = ptr(math.NaN()) }, "drop inconsistent values", "negative weight"},
		{"negative weight", func(u *records.RawUser) { u.Weight = ptr(-2.0) }, "drop inconsistent values", "negative weight"},
		{"unknown gender", func(u *records.RawUser) { u.Gender = ptr("other") }, "parse gender", "unknown gender"},
		{"local phone", func(u *records.RawUser) { u.Phone = ptr("11 99999-0000") }, "clean phone numbers", "phone without country code"},
		{"bad email", func(u *records.RawUser) { u.Email = ptr("maria@example") }, "clean email", "invalid email"},
		{"bad birth date", func(u *records.RawUser) { u.BirthDate = ptr("02/04/1990") }, "parse birth date", "invalid birth date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser(1)
			tt.mutate(&u)

			users, rec := cleanUsers(t, u)
			assert.Empty(t, users)
			assert.Equal(t, 1, rec.drops[drop{"users", tt.step, tt.reason}], "drops: %v", rec.drops)
		})
	}
}

func TestCleanUsersEmptyMaidenNameKept(t *testing.T) {
	u := validUser(1)
	u.MaidenName = ptr("")

	users, _ := cleanUsers(t, u)
	require.Len(t, users, 1)
	assert.Equal(t, "", users[0].MaidenName)
}

func TestCleanUsersGenderAliases(t *testing.T) {
	for in, want := range map[string]string{"m": "male", "M": "male", "Male": "male", "f": "female", "FEMALE": "female"} {
		u := validUser(1)
		u.Gender = ptr(in)
		users, _ := cleanUsers(t, u)
		require.Len(t, users, 1, in)
		assert.Equal(t, want, users[0].Gender, in)
	}
}

func TestCleanUsersDuplicatesKeepFirst(t *testing.T) {
	first := validUser(1)
	second := validUser(2)
	other := validUser(3)
	other.Username = ptr("someone")

	users, rec := cleanUsers(t, first, second, other)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(3), users[1].ID)
	assert.Equal(t, 1, rec.drops[drop{"users", "drop duplicates", "duplicate"}])
}

func TestCleanUsersInvariants(t *testing.T) {
	var rows []records.RawUser
	genders := []string{"m", "f", "x", "Female", ""}
	emails := []string{"A@B.CO", "bad", "x.y@z.org", "UP@PER.NET", "no@tld"}
	for i := 0; i < 25; i++ {
		u := validUser(int64(i))
		u.Username = ptr(string(rune('a' + i)))
		u.Gender = ptr(genders[i%len(genders)])
		u.Email = ptr(emails[(i/5)%len(emails)])
		u.Age = ptr(float64(i*7 - 20))
		rows = append(rows, u)
	}

	users, _ := cleanUsers(t, rows...)
	require.NotEmpty(t, users)
	for _, u := range users {
		assert.Regexp(t, emailPattern, u.Email)
		assert.Contains(t, []string{"male", "female"}, u.Gender)
		assert.GreaterOrEqual(t, u.Age, 0)
		assert.LessOrEqual(t, u.Age, 120)
	}
}

func TestCleanUsersMissingColumn(t *testing.T) {
	_, err := CleanUsers(records.NewBatch([]records.RawUser{validUser(1)}, "id", "firstName"), nil)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
