package classify

import (
	"testing"

	"tir/internal/ast"
	"tir/internal/scope"
)

func path(head string, tail []string, this, data bool) *ast.PathNode {
	return &ast.PathNode{Head: head, Tail: tail, This: this, Data: data}
}

func TestPathKind(t *testing.T) {
	sc := (*scope.Chain)(nil).Push(scope.Binding{Name: "item"}, scope.Binding{Name: "f"})

	tests := []struct {
		name string
		p    *ast.PathNode
		want Kind
	}{
		{"bare name", path("pick-list", nil, false, false), KindName},
		{"builtin", path("each", nil, false, false), KindBuiltin},
		{"builtin component", path("input", nil, false, false), KindBuiltin},
		{"local", path("item", nil, false, false), KindLocal},
		{"dotted local", path("item", []string{"name"}, false, false), KindLocal},
		{"this path", path("title", nil, true, false), KindData},
		{"argument path", path("model", nil, false, true), KindData},
		{"dotted unbound", path("foo", []string{"bar"}, false, false), KindData},
		{"local shadows builtin semantics", path("f", []string{"input"}, false, false), KindLocal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PathKind(tt.p, sc); got != tt.want {
				t.Errorf("PathKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathKindShadowing(t *testing.T) {
	// A block param named like a builtin wins over the builtin.
	sc := (*scope.Chain)(nil).Push(scope.Binding{Name: "component"})
	if got := PathKind(path("component", nil, false, false), sc); got != KindLocal {
		t.Errorf("shadowed builtin = %v, want %v", got, KindLocal)
	}
	if got := PathKind(path("component", nil, false, false), nil); got != KindBuiltin {
		t.Errorf("unshadowed builtin = %v, want %v", got, KindBuiltin)
	}
}

func TestTagInfo(t *testing.T) {
	sc := (*scope.Chain)(nil).Push(scope.Binding{Name: "f"}, scope.Binding{Name: "modal"})

	tests := []struct {
		tag  string
		want Kind
		name string
		head string
	}{
		{"div", KindText, "", ""},
		{"custom-element", KindText, "", ""},
		{"PickList", KindName, "pick-list", ""},
		{"Nav::Bar", KindName, "nav/bar", ""},
		{"f.input", KindLocal, "", "f"},
		{"modal", KindLocal, "", "modal"},
		{"unbound.path", KindData, "", "unbound"},
		{"@body", KindData, "", "body"},
		{"@body.header", KindData, "", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := TagInfo(tt.tag, ast.Loc{Line: 1, Column: 1}, sc)
			if got.Kind != tt.want {
				t.Fatalf("TagInfo(%q).Kind = %v, want %v", tt.tag, got.Kind, tt.want)
			}
			if tt.name != "" && got.Name != tt.name {
				t.Errorf("Name = %q, want %q", got.Name, tt.name)
			}
			if tt.head != "" {
				if got.Path == nil || got.Path.Head != tt.head {
					t.Errorf("Path = %+v, want head %q", got.Path, tt.head)
				}
			}
		})
	}
}

func TestTagPathShapes(t *testing.T) {
	got := TagInfo("@body.header", ast.Loc{}, nil)
	p := got.Path
	if p == nil || !p.Data || p.Head != "body" || len(p.Tail) != 1 || p.Tail[0] != "header" {
		t.Errorf("TagInfo(@body.header).Path = %+v", p)
	}
	got = TagInfo("this.widget", ast.Loc{}, nil)
	p = got.Path
	if p == nil || !p.This || p.Head != "widget" {
		t.Errorf("TagInfo(this.widget).Path = %+v", p)
	}
	if got.Kind != KindData {
		t.Errorf("TagInfo(this.widget).Kind = %v, want %v", got.Kind, KindData)
	}
}
