package todoist

import (
	"github.com/kbukum/todokit/util"
	"github.com/kbukum/todokit/validation"
)

// ViewStyle is how a project is displayed.
type ViewStyle string

const (
	ViewStyleList     ViewStyle = "list"
	ViewStyleBoard    ViewStyle = "board"
	ViewStyleCalendar ViewStyle = "calendar"
)

var viewStyles = []string{string(ViewStyleList), string(ViewStyleBoard), string(ViewStyleCalendar)}

// Project is a project as returned by the API. Projects are comparable, so a
// created project can be looked up in a listing with ==.
type Project struct {
	ID             string                `json:"id" validate:"required"`
	Name           string                `json:"name" validate:"required"`
	CommentCount   int                   `json:"comment_count"`
	Color          string                `json:"color"`
	IsShared       bool                  `json:"is_shared"`
	Order          int                   `json:"order"`
	IsFavorite     bool                  `json:"is_favorite"`
	IsInboxProject bool                  `json:"is_inbox_project"`
	IsTeamInbox    bool                  `json:"is_team_inbox"`
	ViewStyle      ViewStyle             `json:"view_style"`
	URL            string                `json:"url"`
	ParentID       util.Optional[string] `json:"parent_id"`
}

// CreateProjectRequest is the body of a create call. Unset optional fields
// are left out of the payload.
type CreateProjectRequest struct {
	Name       string                   `json:"name"`
	ParentID   util.Optional[string]    `json:"parent_id,omitzero"`
	Color      util.Optional[string]    `json:"color,omitzero"`
	IsFavorite util.Optional[bool]      `json:"is_favorite,omitzero"`
	ViewStyle  util.Optional[ViewStyle] `json:"view_style,omitzero"`
}

// Validate checks the request before it is sent.
func (r CreateProjectRequest) Validate() error {
	v := validation.New()
	v.Required("name", r.Name)
	validateOptional(v, r.ParentID, r.Color, r.ViewStyle)
	return v.Validate()
}

// UpdateProjectRequest is the body of a partial update. Only set fields are
// sent; an empty request is valid and changes nothing.
type UpdateProjectRequest struct {
	Name       util.Optional[string]    `json:"name,omitzero"`
	ParentID   util.Optional[string]    `json:"parent_id,omitzero"`
	Color      util.Optional[string]    `json:"color,omitzero"`
	IsFavorite util.Optional[bool]      `json:"is_favorite,omitzero"`
	ViewStyle  util.Optional[ViewStyle] `json:"view_style,omitzero"`
}

// Validate checks the request before it is sent.
func (r UpdateProjectRequest) Validate() error {
	v := validation.New()
	if name, ok := r.Name.Get(); ok {
		v.Custom(name != "", "name", "must not be empty when set")
	}
	validateOptional(v, r.ParentID, r.Color, r.ViewStyle)
	return v.Validate()
}

// validateOptional checks the fields create and update share.
func validateOptional(v *validation.Validator, parentID, color util.Optional[string], style util.Optional[ViewStyle]) {
	if id, ok := parentID.Get(); ok {
		v.Custom(id != "", "parent_id", "must not be empty when set")
	}
	if c, ok := color.Get(); ok {
		v.Custom(c != "", "color", "must not be empty when set")
	}
	if vs, ok := style.Get(); ok {
		v.Custom(vs != "", "view_style", "must not be empty when set")
		v.OneOf("view_style", string(vs), viewStyles)
	}
}
