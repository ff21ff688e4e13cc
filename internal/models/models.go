package models

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleNone        Role = ""
	RoleManager     Role = "manager"
	RoleStoreKeeper Role = "storekeeper"
)

// ParseRole accepts the canonical names and the legacy "Manager" / "Store Keeper" spellings.
func ParseRole(s string) (Role, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(norm)
	switch norm {
	case string(RoleManager):
		return RoleManager, nil
	case string(RoleStoreKeeper):
		return RoleStoreKeeper, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type Credential struct {
	Email    string `toml:"email"    json:"email"`
	Password string `toml:"password" json:"-"`
	Role     Role   `toml:"role"     json:"role"`
}

type Session struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Product struct {
	ID       int     `toml:"id"       json:"id"`
	Name     string  `toml:"name"     json:"name"`
	Quantity int     `toml:"quantity" json:"quantity"`
	Price    float64 `toml:"price"    json:"price"`
}

type EditMode int

const (
	EditIdle EditMode = iota
	EditAdding
	EditEditing
)

func (m EditMode) String() string {
	switch m {
	case EditAdding:
		return "adding"
	case EditEditing:
		return "editing"
	default:
		return "idle"
	}
}

func (m EditMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *EditMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*m = EditIdle
	case "adding":
		*m = EditAdding
	case "editing":
		*m = EditEditing
	default:
		return fmt.Errorf("unknown edit mode %q", b)
	}
	return nil
}

type DraftField string

const (
	FieldName     DraftField = "name"
	FieldQuantity DraftField = "quantity"
	FieldPrice    DraftField = "price"
)

// Draft keeps raw form input until commit.
type Draft struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

type EditState struct {
	Mode      EditMode `json:"mode"`
	ProductID int      `json:"product_id,omitempty"`
	Draft     Draft    `json:"draft"`
}

type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"not null"            json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_entries" }
