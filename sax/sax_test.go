package sax

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type recorder struct {
	events []string
	failOn string
}

func (r *recorder) record(event string) error {
	r.events = append(r.events, event)
	if r.failOn != "" && event == r.failOn {
		return errors.New("stop")
	}
	return nil
}

func (r *recorder) StartDocument() error { return r.record("start-document") }
func (r *recorder) EndDocument() error   { return r.record("end-document") }

func (r *recorder) StartElement(name string, attrs Attributes) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s", name)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%q", a.Name, a.Value)
	}
	b.WriteString(">")
	return r.record(b.String())
}

func (r *recorder) EndElement(name string) error { return r.record("</" + name + ">") }
func (r *recorder) Characters(text string) error { return r.record("text:" + text) }

func (r *recorder) IgnorableWhitespace(text string) error {
	return r.record(fmt.Sprintf("ws:%q", text))
}

func (r *recorder) ProcessingInstruction(target, data string) error {
	return r.record("pi:" + target + "|" + data)
}

func TestParseEvents(t *testing.T) {
	const input = `<?xml version="1.0"?><!-- comment --><P Class="x">a &amp; b<br/></p> <IMG src="pic">`

	var r recorder
	err := Parse(strings.NewReader(input), &r)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start-document",
		`pi:xml|version="1.0"`,
		`<p class="x">`,
		"text:a & b",
		"<br>",
		"</br>",
		"</p>",
		`ws:" "`,
		`<img src="pic">`,
		"end-document",
	}, r.events)
}

func TestParseStopsOnHandlerError(t *testing.T) {
	r := recorder{failOn: "<b>"}
	err := Parse(strings.NewReader("<i>x</i><b>y</b>"), &r)
	require.Error(t, err)
	assert.Equal(t, "<b>", r.events[len(r.events)-1])
}

func TestParseBufferExceeded(t *testing.T) {
	var r recorder
	err := Parse(strings.NewReader("<p>"+strings.Repeat("x", 256)+"</p>"), &r, WithMaxBuffer(16))
	require.Error(t, err)
	assert.ErrorIs(t, err, html.ErrBufferExceeded)
	assert.NotContains(t, r.events, "end-document")
}

func TestAttributesValue(t *testing.T) {
	attrs := Attributes{{Name: "href", Value: "https://example.com"}}

	v, ok := attrs.Value("HREF")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", v)

	_, ok = attrs.Value("title")
	assert.False(t, ok)
}
