package entity

import "time"

// Organization es el tenant que recolecta testimonios. La AccessKey se genera una vez y no cambia.
type Organization struct {
	ID         string
	Name       string
	Domain     string // host normalizado, sin www.
	AccessKey  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	EditorIDs  []string
	VisitorIDs []string
}

// HasEditor indica si userID está en el conjunto de editores.
func (o *Organization) HasEditor(userID string) bool {
	return contains(o.EditorIDs, userID)
}

// HasVisitor indica si userID está en el conjunto de visitantes.
func (o *Organization) HasVisitor(userID string) bool {
	return contains(o.VisitorIDs, userID)
}

func contains(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
