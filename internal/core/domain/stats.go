package domain

// DashboardStats - счетчики для главной страницы админки. Ключ - имя ресурса.
type DashboardStats struct {
	Counts map[string]int
	Failed []string
}
