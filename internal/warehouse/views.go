package warehouse

// View is a read-only reporting query over fact_sales. The SQL is shared by
// both dialects.
type View struct {
	Name  string
	Query string
}

var Views = []View{
	{
		Name: "vw_revenue_by_location",
		Query: `
			SELECT u.country, u.state, u.city,
				SUM(f.unit_price * f.quantity) AS revenue,
				COUNT(*) AS sales
			FROM fact_sales f
			JOIN dim_users u ON u.user_id = f.user_id
			GROUP BY u.country, u.state, u.city`,
	},
	{
		Name: "vw_top_selling_products",
		Query: `
			SELECT p.product_id, p.title, p.brand,
				SUM(f.quantity) AS units_sold,
				SUM(f.unit_price * f.quantity) AS revenue
			FROM fact_sales f
			JOIN dim_products p ON p.product_id = f.product_id
			GROUP BY p.product_id, p.title, p.brand`,
	},
	{
		Name: "vw_top_brand_by_state",
		Query: `
			SELECT state, brand, units_sold
			FROM (
				SELECT u.state, p.brand,
					SUM(f.quantity) AS units_sold,
					RANK() OVER (PARTITION BY u.state ORDER BY SUM(f.quantity) DESC) AS brand_rank
				FROM fact_sales f
				JOIN dim_users u ON u.user_id = f.user_id
				JOIN dim_products p ON p.product_id = f.product_id
				GROUP BY u.state, p.brand
			) ranked
			WHERE brand_rank = 1`,
	},
	{
		Name: "vw_rating_vs_sales",
		Query: `
			SELECT p.product_id, p.rating,
				COALESCE(SUM(f.quantity), 0) AS units_sold,
				COALESCE(SUM(f.unit_price * f.quantity), 0) AS revenue
			FROM dim_products p
			LEFT JOIN fact_sales f ON f.product_id = p.product_id
			GROUP BY p.product_id, p.rating`,
	},
	{
		Name: "vw_revenue_by_month",
		Query: `
			SELECT t.year, t.month,
				SUM(f.unit_price * f.quantity) AS revenue,
				SUM(f.quantity) AS units_sold
			FROM fact_sales f
			JOIN dim_time t ON t.time_id = f.time_id
			GROUP BY t.year, t.month`,
	},
}

func (v View) Statement() string {
	return "CREATE OR REPLACE VIEW " + v.Name + " AS" + v.Query
}
