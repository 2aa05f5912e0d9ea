package categories

import (
	"github.com/google/uuid"

	"github.com/onix-commerce/onix-backend/pkg/db/models"
)

// CategoryOption is the select-box friendly shape used by the storefront.
type CategoryOption struct {
	Value    string     `json:"value"`
	Label    string     `json:"label"`
	Slug     string     `json:"slug"`
	ID       string     `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryNode is one node of the category tree.
type CategoryNode struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	SortOrder   int             `json:"sort_order"`
	Children    []*CategoryNode `json:"children"`
}

// Summary is the nested form embedded in product payloads.
type Summary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func NewOption(c models.Category) CategoryOption {
	id := c.ID.String()
	return CategoryOption{Value: id, Label: c.Name, Slug: c.Slug, ID: id, ParentID: c.ParentID}
}

func NewSummary(c *models.Category) *Summary {
	if c == nil {
		return nil
	}
	return &Summary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// BuildTree nests rows by parent. Rows whose parent is missing or inactive
// surface as roots; input order is kept among siblings.
func BuildTree(rows []models.Category) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(rows))
	for _, c := range rows {
		nodes[c.ID] = &CategoryNode{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			SortOrder:   c.SortOrder,
			Children:    []*CategoryNode{},
		}
	}

	roots := make([]*CategoryNode, 0, len(rows))
	for _, c := range rows {
		node := nodes[c.ID]
		if c.ParentID != nil && *c.ParentID != c.ID {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
