package dashboard

// Stats is the scoped rollup shown on the landing page.
type Stats struct {
	Leads          int     `json:"leads"`
	Bookings       int     `json:"bookings"`
	Customers      int     `json:"customers"`
	BookingRevenue float64 `json:"booking_revenue"`
}
