package pipelineerr

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestIsFatalClassification(t *testing.T) {
	root := stdErrors.New("root")
	wrapped := fmt.Errorf("adding context: %w", root)
	se := NewSourceError("sampler.open", wrapped)
	if !IsFatal(se) {
		t.Fatalf("expected IsFatal=true for source error")
	}
	if !stdErrors.Is(se, root) {
		t.Fatalf("expected errors.Is to find root cause")
	}
	var s *SourceError
	if !stdErrors.As(se, &s) {
		t.Fatalf("expected errors.As to *SourceError")
	}
	if s.Op != "sampler.open" {
		t.Fatalf("unexpected op: %s", s.Op)
	}

	ce := NewConfigError("config.load", nil)
	if !IsFatal(ce) {
		t.Fatalf("expected config error classified as fatal")
	}
}

func TestRecoverableErrorsAreNotFatal(t *testing.T) {
	fe := NewFrameError("ocr.read", stdErrors.New("low confidence"))
	if IsFatal(fe) {
		t.Fatalf("frame error should not be fatal")
	}
	cte := NewClipToolError("clip.extract", stdErrors.New("exit status 1"))
	if IsFatal(cte) {
		t.Fatalf("clip tool error should not be fatal")
	}
}

func TestUnwrapChains(t *testing.T) {
	base := stdErrors.New("disk full")
	l1 := fmt.Errorf("write: %w", base)
	l2 := NewConfigError("config.save", l1)
	if !stdErrors.Is(l2, base) {
		t.Fatalf("errors.Is should reach base cause")
	}
	var fm fatalMarker
	if !stdErrors.As(l2, &fm) {
		t.Fatalf("expected to match fatalMarker via As")
	}
}

func TestNilSafety(t *testing.T) {
	if IsFatal(nil) {
		t.Fatalf("nil should not be fatal")
	}
}

func TestConstructorWithoutCause(t *testing.T) {
	fe := NewFrameError("parse.score", nil)
	if fe == nil {
		t.Fatalf("constructor returned nil")
	}
	if errStr := fe.Error(); errStr == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestNilErrBranchesAndStrings(t *testing.T) {
	se := NewSourceError("op1", nil)
	if s := se.Error(); s == "" || s == "source error:" {
		t.Fatalf("unexpected source error string: %q", s)
	}

	ce := NewConfigError("op2", nil)
	if s := ce.Error(); s == "" || s == "config error:" {
		t.Fatalf("bad config error string: %q", s)
	}

	fe := NewFrameError("op3", nil)
	if s := fe.Error(); s == "" {
		t.Fatalf("empty frame error string")
	}

	cte := NewClipToolError("op4", nil)
	if s := cte.Error(); s == "" {
		t.Fatalf("empty clip tool error string")
	}
}

func TestNegativePredicates(t *testing.T) {
	if IsFatal(stdErrors.New("plain")) {
		t.Fatalf("plain error shouldn't be fatal")
	}
}
