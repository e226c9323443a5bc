package review

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestReviewContinueKeepsList(t *testing.T) {
	in := strings.NewReader("c\n")
	var out strings.Builder

	got := Subcommands(in, &out, "git", []string{"commit", "add"}, nil)
	want := []string{"add", "commit"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReviewAddAndRemove(t *testing.T) {
	in := strings.NewReader("a stash rebase\nr add\nc\n")
	var out strings.Builder

	got := Subcommands(in, &out, "git", []string{"commit", "add"}, nil)
	want := []string{"commit", "rebase", "stash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReviewEOFActsLikeContinue(t *testing.T) {
	in := strings.NewReader("")
	var out strings.Builder

	got := Subcommands(in, &out, "git", []string{"b", "a", "a"}, nil)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReviewReparseUnions(t *testing.T) {
	in := strings.NewReader("a manual\ne\nc\n")
	var out strings.Builder

	reparse := func() ([]string, error) {
		return []string{"found", "commit"}, nil
	}

	got := Subcommands(in, &out, "git", []string{"commit"}, reparse)
	want := []string{"commit", "found", "manual"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReviewReparseFailureKeepsList(t *testing.T) {
	in := strings.NewReader("e\nc\n")
	var out strings.Builder

	reparse := func() ([]string, error) {
		return nil, fmt.Errorf("model unavailable")
	}

	got := Subcommands(in, &out, "git", []string{"commit"}, reparse)
	if !reflect.DeepEqual(got, []string{"commit"}) {
		t.Errorf("got %v", got)
	}
	if !strings.Contains(out.String(), "re-parse failed") {
		t.Error("expected failure message in output")
	}
}

func TestReviewUnknownCommand(t *testing.T) {
	in := strings.NewReader("x\nc\n")
	var out strings.Builder

	Subcommands(in, &out, "git", nil, nil)
	if !strings.Contains(out.String(), `unknown command "x"`) {
		t.Errorf("output = %q", out.String())
	}
}
