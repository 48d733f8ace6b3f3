package todoist

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/util"
)

func TestCreateProjectRequest_OnlySetFieldsSerialize(t *testing.T) {
	data, err := json.Marshal(CreateProjectRequest{Name: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"demo"}` {
		t.Errorf("unexpected payload %s", data)
	}

	data, _ = json.Marshal(CreateProjectRequest{
		Name:       "demo",
		IsFavorite: util.Some(false),
		ViewStyle:  util.Some(ViewStyleBoard),
	})
	if string(data) != `{"name":"demo","is_favorite":false,"view_style":"board"}` {
		t.Errorf("unexpected payload %s", data)
	}
}

func TestUpdateProjectRequest_OnlySetFieldsSerialize(t *testing.T) {
	data, _ := json.Marshal(UpdateProjectRequest{})
	if string(data) != `{}` {
		t.Errorf("empty update must serialize to {}, got %s", data)
	}

	data, _ = json.Marshal(UpdateProjectRequest{Color: util.Some("red")})
	if string(data) != `{"color":"red"}` {
		t.Errorf("unexpected payload %s", data)
	}
}

func TestProject_Decode(t *testing.T) {
	body := `{"id":"2203306141","name":"Shopping List","comment_count":0,"color":"charcoal",
		"is_shared":false,"order":1,"is_favorite":false,"is_inbox_project":false,
		"is_team_inbox":false,"view_style":"list","url":"https://todoist.com/showProject?id=2203306141",
		"parent_id":null}`
	var p Project
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ParentID.IsSet() {
		t.Error("null parent_id must decode as absent")
	}
	if p.ViewStyle != ViewStyleList || p.Order != 1 {
		t.Errorf("unexpected project %+v", p)
	}

	var child Project
	_ = json.Unmarshal([]byte(`{"id":"2","name":"c","parent_id":"2203306141"}`), &child)
	if id, ok := child.ParentID.Get(); !ok || id != "2203306141" {
		t.Errorf("expected parent id, got %v", child.ParentID)
	}
}

func TestCreateProjectRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateProjectRequest
		code errors.ErrorCode
	}{
		{"valid", CreateProjectRequest{Name: "a"}, ""},
		{"missing name", CreateProjectRequest{}, errors.ErrCodeMissingField},
		{"blank name", CreateProjectRequest{Name: "  "}, errors.ErrCodeMissingField},
		{"bad view style", CreateProjectRequest{Name: "a", ViewStyle: util.Some(ViewStyle("grid"))}, errors.ErrCodeInvalidInput},
		{"empty view style", CreateProjectRequest{Name: "a", ViewStyle: util.Some(ViewStyle(""))}, errors.ErrCodeInvalidInput},
		{"empty parent", CreateProjectRequest{Name: "a", ParentID: util.Some("")}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestUpdateProjectRequest_Validate(t *testing.T) {
	if err := (UpdateProjectRequest{}).Validate(); err != nil {
		t.Errorf("empty update is valid, got %v", err)
	}
	if err := (UpdateProjectRequest{Name: util.Some("")}).Validate(); !errors.IsValidation(err) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}
	err := (UpdateProjectRequest{ViewStyle: util.Some(ViewStyle("grid"))}).Validate()
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "must be one of: list, board, calendar") {
		t.Errorf("expected view_style choices in error, got %v", err)
	}
	if err := (UpdateProjectRequest{ViewStyle: util.Some(ViewStyleCalendar)}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpectedStatus(t *testing.T) {
	want := map[Operation]int{
		OpCreateProject: 200,
		OpListProjects:  200,
		OpGetProject:    200,
		OpUpdateProject: 200,
		OpDeleteProject: 204,
	}
	for op, status := range want {
		if got := ExpectedStatus(op); got != status {
			t.Errorf("ExpectedStatus(%q) = %d, want %d", op, got, status)
		}
	}
	if ExpectedStatus("archive project") != 0 {
		t.Error("unknown operations have no expected status")
	}
}
