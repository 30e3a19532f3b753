package dto

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nombre_categoria"`
	Icon  string `json:"icono,omitempty"`
	Color string `json:"color,omitempty"`
}

// CreateCategoryRequest alta de categoría (solo CLI).
type CreateCategoryRequest struct {
	Name  string
	Icon  string
	Color string
}
