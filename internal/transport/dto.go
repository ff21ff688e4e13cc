package transport

import (
	"time"

	"github.com/Skotchmaster/stockroom/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Redirect string      `json:"redirect"`
}

type Link struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type HomeResponse struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Links []Link      `json:"links"`
}

// ProductsResponse omits Edit entirely for roles that cannot change products.
type ProductsResponse struct {
	Data    []models.Product  `json:"data"`
	CanEdit bool              `json:"can_edit"`
	Edit    *models.EditState `json:"edit,omitempty"`
}

type DraftUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ThemeRequest struct {
	Dark *bool `json:"dark"`
}

type ThemeResponse struct {
	Dark bool `json:"dark"`
}

type Event struct {
	EventID string          `json:"event_id"`
	Type    string          `json:"type"`
	Email   string          `json:"email"`
	At      time.Time       `json:"at"`
	Product *models.Product `json:"product,omitempty"`
}
