// Package odt converts HTML and styled text into OpenDocument text documents.
package odt

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/rohitmishra4444/html-textview/formatter"
	"github.com/rohitmishra4444/html-textview/renderer"
	"github.com/rohitmishra4444/html-textview/spanned"
)

func writeMimetype(zw *zip.Writer) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(f, "application/vnd.oasis.opendocument.text")
	return err
}

func writeManifest(zw *zip.Writer, pictures []Picture) error {
	var manifest bytes.Buffer
	manifest.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.3" xmlns:loext="urn:org:documentfoundation:names:experimental:office:xmlns:loext:1.0">
	<manifest:file-entry manifest:full-path="/" manifest:version="1.3" manifest:media-type="application/vnd.oasis.opendocument.text"/>
	<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
`)
	for _, p := range pictures {
		fmt.Fprintf(&manifest, "\t<manifest:file-entry manifest:full-path=\"%s\" manifest:media-type=\"image/png\"/>\n", p.Path)
	}
	manifest.WriteString("</manifest:manifest>\n")

	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "META-INF/manifest.xml",
		Method: zip.Deflate,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(manifest.Bytes())
	return err
}

type options struct {
	proportionalFamily string
	monospaceFamily    string
	formatOptions      []formatter.Option
}

type RenderOption func(opts *options)

// WithProportionalFamily sets the font family of body text.
func WithProportionalFamily(fontFamily string) RenderOption {
	return func(opts *options) {
		opts.proportionalFamily = fontFamily
	}
}

// WithMonospaceFamily sets the font family of code.
func WithMonospaceFamily(fontFamily string) RenderOption {
	return func(opts *options) {
		opts.monospaceFamily = fontFamily
	}
}

// WithFormatOptions sets the options used to format HTML input.
func WithFormatOptions(formatOptions ...formatter.Option) RenderOption {
	return func(opts *options) {
		opts.formatOptions = append(opts.formatOptions, formatOptions...)
	}
}

// FromHTML formats HTML and writes the result to w as an OpenDocument text document. Tables are converted to
// document tables.
func FromHTML(w io.Writer, html string, renderOptions ...RenderOption) error {
	var opts options
	for _, o := range renderOptions {
		o(&opts)
	}

	tables := formatter.WithTableDrawer(formatter.TableDrawerFactoryFunc(func() spanned.TableDrawer {
		return renderer.NewGridTable(nil)
	}))
	text, err := formatter.Format(html, append([]formatter.Option{tables}, opts.formatOptions...)...)
	if err != nil {
		return err
	}
	return FromText(w, text, renderOptions...)
}

// FromText writes text to w as an OpenDocument text document.
func FromText(w io.Writer, text *spanned.Text, renderOptions ...RenderOption) error {
	var opts options
	for _, o := range renderOptions {
		o(&opts)
	}

	var content bytes.Buffer
	doc := NewRenderer(opts.proportionalFamily, opts.monospaceFamily)
	if err := doc.Render(&content, text); err != nil {
		return fmt.Errorf("rendering content: %w", err)
	}

	zw := zip.NewWriter(w)
	if err := writeMimetype(zw); err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}
	if err := writeManifest(zw, doc.Pictures()); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	f, err := zw.Create("content.xml")
	if err != nil {
		return fmt.Errorf("creating content.xml: %w", err)
	}
	if _, err := f.Write(content.Bytes()); err != nil {
		return fmt.Errorf("writing content.xml: %w", err)
	}

	for _, p := range doc.Pictures() {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.Path, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("creating %v: %w", p.Path, err)
		}
		if _, err := f.Write(p.Data); err != nil {
			return fmt.Errorf("writing %v: %w", p.Path, err)
		}
	}

	return zw.Close()
}
