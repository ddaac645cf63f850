package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("file vanished")
	err := Wrap(cause, CodeNotFound, "read file")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause must survive errors.Is")
	}
	if !IsCode(err, CodeNotFound) {
		t.Error("code must be queryable")
	}
	if IsCode(err, CodeParseError) {
		t.Error("wrong code must not match")
	}
	msg := err.Error()
	if !strings.Contains(msg, "NOT_FOUND") || !strings.Contains(msg, "file vanished") {
		t.Errorf("message incomplete: %q", msg)
	}
}

func TestNew(t *testing.T) {
	err := New(CodeRootNotFound, "no root file")
	if !IsCode(err, CodeRootNotFound) {
		t.Error("code must be queryable")
	}
	if IsCode(stderrors.New("plain"), CodeRootNotFound) {
		t.Error("plain errors carry no code")
	}
}

func TestAddContext(t *testing.T) {
	err := New(CodeParseError, "bad input")
	err = AddContext(err, CtxPath, "main.tex")
	if !strings.Contains(err.Error(), "main.tex") {
		t.Errorf("context missing from message: %q", err.Error())
	}

	plain := AddContext(stderrors.New("plain"), CtxOperation, "resolve")
	if !IsCode(plain, CodeInternal) {
		t.Error("plain errors get wrapped as internal")
	}
}
