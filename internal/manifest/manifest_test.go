package manifest

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const sample = `{
  "name": "Token #42",
  "seller_fee_basis_points": 500,
  "big": 123456789012345678901234567890,
  "description": "a <b>bold</b> & brave token",
  "image": "42.png",
  "properties": {
    "category": "video",
    "files": [
      {"type": "image/png", "uri": "42.png"},
      {"type": "video/mp4", "uri": "42.mp4", "cdn": true}
    ]
  }
}`

type doc struct {
	Image        string  `json:"image"`
	AnimationURL *string `json:"animation_url"`
	Properties   struct {
		Files []map[string]any `json:"files"`
	} `json:"properties"`
}

func decode(t *testing.T, b []byte) doc {
	t.Helper()
	var d doc
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return d
}

func TestRewriteWithAnimation(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	m.SetImage("https://b.s3.amazonaws.com/assets/42.png")
	m.SetAnimationURL("https://b.s3.amazonaws.com/assets/42.mp4")
	m.RewriteFiles("https://b.s3.amazonaws.com/assets/42.png", "https://b.s3.amazonaws.com/assets/42.mp4", true)
	out, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes err: %v", err)
	}
	d := decode(t, out)
	if d.Image != "https://b.s3.amazonaws.com/assets/42.png" {
		t.Fatalf("image %q", d.Image)
	}
	if d.AnimationURL == nil || *d.AnimationURL != "https://b.s3.amazonaws.com/assets/42.mp4" {
		t.Fatalf("animation_url %v", d.AnimationURL)
	}
	if d.Properties.Files[0]["uri"] != "https://b.s3.amazonaws.com/assets/42.png" {
		t.Fatalf("files[0] %v", d.Properties.Files[0])
	}
	if d.Properties.Files[1]["uri"] != "https://b.s3.amazonaws.com/assets/42.mp4" {
		t.Fatalf("files[1] %v", d.Properties.Files[1])
	}
	if d.Properties.Files[1]["cdn"] != true {
		t.Fatalf("extra field lost: %v", d.Properties.Files[1])
	}
}

func TestRewriteWithoutAnimationDropsURI(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	m.SetImage("img")
	m.RewriteFiles("img", "", false)
	out, _ := m.Bytes()
	d := decode(t, out)
	if d.AnimationURL != nil {
		t.Fatalf("animation_url should be absent, got %q", *d.AnimationURL)
	}
	if _, ok := d.Properties.Files[1]["uri"]; ok {
		t.Fatalf("non-image uri should be absent: %v", d.Properties.Files[1])
	}
	if d.Properties.Files[0]["uri"] != "img" {
		t.Fatalf("files[0] %v", d.Properties.Files[0])
	}
}

func TestBytesPreservesPassthrough(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	out, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes err: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`"big":123456789012345678901234567890`,
		`"seller_fee_basis_points":500`,
		`"description":"a <b>bold</b> & brave token"`,
		`"category":"video"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("output %s missing %s", s, want)
		}
	}
	if strings.HasSuffix(s, "\n") || strings.Contains(s, "\n  ") {
		t.Fatalf("output should be compact: %q", s)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"syntax":        `{"image":`,
		"null":          `null`,
		"no properties": `{"image":""}`,
		"no files":      `{"properties":{}}`,
		"files object":  `{"properties":{"files":{}}}`,
		"entry scalar":  `{"properties":{"files":["x"]}}`,
		"missing type":  `{"properties":{"files":[{"uri":""}]}}`,
		"numeric type":  `{"properties":{"files":[{"type":3}]}}`,
		"trailing":      `{"properties":{"files":[]}} {}`,
		"array root":    `[]`,
	}
	for name, in := range cases {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: err=%v; want ErrMalformed", name, err)
		}
	}
}

func TestParseEmptyFiles(t *testing.T) {
	m, err := Parse([]byte(`{"image":"","properties":{"files":[]}}`))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	m.RewriteFiles("a", "", false)
	out, _ := m.Bytes()
	if !strings.Contains(string(out), `"files":[]`) {
		t.Fatalf("output %s", out)
	}
}

func TestBytesKeepsMemberOrder(t *testing.T) {
	in := `{"name":"n","symbol":"S","image":"","properties":{"files":[{"uri":"","type":"image/png"},{"type":"video/mp4"}],"category":"video"}}`
	m, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	m.SetImage("i")
	m.SetAnimationURL("a")
	m.RewriteFiles("i", "a", true)
	out, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes err: %v", err)
	}
	want := `{"name":"n","symbol":"S","image":"i","properties":{"files":[{"uri":"i","type":"image/png"},{"type":"video/mp4","uri":"a"}],"category":"video"},"animation_url":"a"}`
	if string(out) != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}
}

func TestDuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	m, err := Parse([]byte(`{"image":"x","properties":{"files":[]},"image":"y"}`))
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	out, _ := m.Bytes()
	if string(out) != `{"image":"y","properties":{"files":[]}}` {
		t.Fatalf("output %s", out)
	}
}
