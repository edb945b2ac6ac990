package domain

// Bundle is the portable representation of all exportable entities plus
// their binary assets. The bundle's JSON documents use the archive wire
// format (camelCase keys), which is separate from the REST API shapes.
type Bundle struct {
	Categories    []CategoryRecord
	Manufacturers []ManufacturerRecord
	Users         []UserRecord
	Products      []ProductRecord
	Images        []AssetFile
}

// AssetFile is a named binary asset carried inside a bundle.
type AssetFile struct {
	Name string
	Data []byte
}

// CategoryRecord is the archive wire format for a category. ID may carry a
// pre-assigned temporary reference that ParentID values of other records in
// the same bundle point at.
type CategoryRecord struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ParentID *int64 `json:"parentId"`
}

// ManufacturerRecord is the archive wire format for a manufacturer.
type ManufacturerRecord struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// UserRecord is the archive wire format for a user.
type UserRecord struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ProductRecord is the archive wire format for a product. Images holds
// portable asset names, not store URLs; CategoryName/CategoryID and
// ManufacturerName reference other bundle records or persisted entities.
type ProductRecord struct {
	ID               int64    `json:"id,omitempty"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug,omitempty"`
	Description      string   `json:"description,omitempty"`
	Price            int64    `json:"price"`
	CategoryID       *int64   `json:"categoryId,omitempty"`
	CategoryName     string   `json:"categoryName,omitempty"`
	ManufacturerName string   `json:"manufacturerName,omitempty"`
	Images           []string `json:"images"`
}
