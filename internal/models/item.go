package models

// Item categories in active use by the client
const (
	ItemTypeDrink = "drink"
	ItemTypeSnack = "snack"
)

// Item represents an orderable catalog entry
type Item struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Image string `json:"image"`
	Stock bool   `json:"stock"`
}

// ItemPatch carries a partial item update; nil fields are left untouched
type ItemPatch struct {
	Name  *string
	Type  *string
	Image *string
	Stock *bool
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Image == nil && p.Stock == nil
}

// ItemRequest is the JSON body accepted by item create and update.
// Pointer fields tell "absent" apart from a zero value.
type ItemRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	ImageBase64 *string `json:"imageBase64"`
	Stock       *bool   `json:"stock"`
}
