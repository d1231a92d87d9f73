package views

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestView(t *testing.T) {
	t.Run("SafeAndUnsafe", func(t *testing.T) {
		v := NewView("post")
		v.Set("title", String("A & B"))

		if got := v.Get("title", true); got != String("A &amp; B") {
			t.Errorf("unexpected safe form: %#v", got)
		}
		if got := v.Get("title", false); got != String("A & B") {
			t.Errorf("unexpected unsafe form: %#v", got)
		}
		if got := v.Var("title"); got != String("A &amp; B") {
			t.Errorf("Var did not return the safe form: %#v", got)
		}
	})

	t.Run("EscapesAllSpecials", func(t *testing.T) {
		v := NewView("x").SetValue("s", `<>&"'`)
		if got := v.Get("s", true); got != String("&lt;&gt;&amp;&quot;&#039;") {
			t.Errorf("unexpected safe form: %#v", got)
		}
	})

	t.Run("UnsafeIsIdentity", func(t *testing.T) {
		m := NewMapping(1).Set("k", String("<b>"))
		v := NewView("x").Set("m", m)
		if got := v.Get("m", false); got != Value(m) {
			t.Errorf("unsafe form is not the value that was set: %#v", got)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		v := NewView("x")
		if got := v.Get("nope", true); got != nil {
			t.Errorf("expected nil for a missing variable; got %#v", got)
		}
		if got := v.Get("nope", false); got != nil {
			t.Errorf("expected nil for a missing variable; got %#v", got)
		}
		if v.Has("nope") {
			t.Errorf("Has reported a missing variable")
		}
	})

	t.Run("ChainingAndOverwrite", func(t *testing.T) {
		v := NewView("x").
			Set("a", String("1 < 2")).
			Set("b", Int(2)).
			Set("a", Sequence{String("&")})

		want := Value(Sequence{String("&amp;")})
		if diff := cmp.Diff(want, v.Get("a", true)); diff != "" {
			t.Errorf("overwrite did not replace safe form (-want +got):\n%s", diff)
		}
		want = Sequence{String("&")}
		if diff := cmp.Diff(want, v.Get("a", false)); diff != "" {
			t.Errorf("overwrite did not replace unsafe form (-want +got):\n%s", diff)
		}
		if got := v.Get("b", true); got != Int(2) {
			t.Errorf("unexpected value for b: %#v", got)
		}
		if diff := cmp.Diff([]string{"a", "b"}, v.Names()); diff != "" {
			t.Errorf("unexpected names (-want +got):\n%s", diff)
		}
	})

	t.Run("NilIsNull", func(t *testing.T) {
		v := NewView("x").Set("n", nil)
		if got := v.Get("n", true); got != (Null{}) {
			t.Errorf("expected Null; got %#v", got)
		}
		if got := v.Get("n", false); got != (Null{}) {
			t.Errorf("expected Null for the unsafe form; got %#v", got)
		}
	})

	t.Run("SafeFormIsComputedAtSet", func(t *testing.T) {
		seq := Sequence{String("a")}
		v := NewView("x").Set("s", seq)
		seq[0] = String("<changed>")

		if got := v.Get("s", true).(Sequence)[0]; got != String("a") {
			t.Errorf("safe form followed an external mutation: %#v", got)
		}
		if got := v.Get("s", false).(Sequence)[0]; got != String("<changed>") {
			t.Errorf("unsafe form is not the original container: %#v", got)
		}
	})

	t.Run("ZeroValue", func(t *testing.T) {
		var v View
		v.Set("a", String("&"))
		if got := v.Get("a", true); got != String("&amp;") {
			t.Errorf("unexpected safe form: %#v", got)
		}
	})
}

func TestViewValues(t *testing.T) {
	v := NewView("x").Set("a", String("<")).Set("b", Bool(true))

	want := map[string]Value{"a": String("&lt;"), "b": Bool(true)}
	if diff := cmp.Diff(want, v.ViewValues(true)); diff != "" {
		t.Errorf("encoded values mismatch (-want +got):\n%s", diff)
	}
	want = map[string]Value{"a": String("<"), "b": Bool(true)}
	if diff := cmp.Diff(want, v.ViewValues(false)); diff != "" {
		t.Errorf("raw values mismatch (-want +got):\n%s", diff)
	}
}
