package module

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

// TestDescriptorFileName is the harness configuration of a module.
const TestDescriptorFileName = "AndroidTest.xml"

const indent = "    "

type attr struct {
	name, value string
}

// element is the minimal node model needed for descriptor output. Elements
// without children are written self-closing.
type element struct {
	name     string
	attrs    []attr
	children []*element
}

func (o Option) element() *element {
	attrs := []attr{{"name", o.Name}}
	if o.Key != "" {
		attrs = append(attrs, attr{"key", o.Key})
	}
	attrs = append(attrs, attr{"value", o.Value})
	return &element{name: "option", attrs: attrs}
}

func (t Template) configuration(pkg string) *element {
	root := &element{
		name:  "configuration",
		attrs: []attr{{"description", t.Description}},
	}
	root.children = append(root.children,
		Option{Name: "config-descriptor:metadata", Key: "plan", Value: t.Plan}.element(),
		Option{Name: "package-name", Value: pkg}.element(),
	)
	for _, p := range t.Preparers {
		prep := &element{name: "target_preparer", attrs: []attr{{"class", p.Class}}}
		for _, o := range p.Options {
			prep.children = append(prep.children, o.element())
		}
		root.children = append(root.children, prep)
	}
	root.children = append(root.children, &element{
		name:  "test",
		attrs: []attr{{"class", t.TestClass}},
	})
	return root
}

// WriteTestDescriptor renders the test descriptor for pkg to w.
func (t Template) WriteTestDescriptor(w io.Writer, pkg string) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	// Continuation lines of the comment line up under the text after "<!-- ".
	for i, line := range licenseLines {
		switch {
		case i == 0:
			bw.WriteString("<!-- " + line)
		case line != "":
			bw.WriteString("     " + line)
		}
		bw.WriteString("\n")
	}
	bw.WriteString("-->\n")
	bw.WriteString("<!-- " + AutoGeneratedMarker + "-->\n\n")

	if err := writeElement(bw, t.configuration(pkg), 0); err != nil {
		return err
	}
	return bw.Flush()
}

// TestDescriptor returns the test descriptor for pkg as a string.
func (t Template) TestDescriptor(pkg string) (string, error) {
	var sb strings.Builder
	if err := t.WriteTestDescriptor(&sb, pkg); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeElement(w *bufio.Writer, e *element, depth int) error {
	prefix := strings.Repeat(indent, depth)
	w.WriteString(prefix + "<" + e.name)
	for _, a := range e.attrs {
		w.WriteString(" " + a.name + `="`)
		if err := xml.EscapeText(w, []byte(a.value)); err != nil {
			return err
		}
		w.WriteString(`"`)
	}
	if len(e.children) == 0 {
		_, err := w.WriteString("/>\n")
		return err
	}
	w.WriteString(">\n")
	for _, c := range e.children {
		if err := writeElement(w, c, depth+1); err != nil {
			return err
		}
	}
	_, err := w.WriteString(prefix + "</" + e.name + ">\n")
	return err
}
