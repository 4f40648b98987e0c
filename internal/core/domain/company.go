package domain

// Company - застройщик или агентство, которому принадлежат здания.
type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (c Company) EntityID() int64 { return c.ID }
