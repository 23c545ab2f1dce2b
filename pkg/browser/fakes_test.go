package browser

import (
	"errors"
	"fmt"
	"time"
)

// fakeElement records interactions for assertions.
type fakeElement struct {
	text string

	clicks       int
	scrolls      int
	typed        []string
	clickErr     error
	scrollErr    error
	typeErr      error
	innerTextErr error
}

func (e *fakeElement) Click() error {
	e.clicks++
	return e.clickErr
}

func (e *fakeElement) ScrollIntoView() error {
	e.scrolls++
	return e.scrollErr
}

func (e *fakeElement) Type(text string) error {
	if e.typeErr != nil {
		return e.typeErr
	}
	e.typed = append(e.typed, text)
	return nil
}

func (e *fakeElement) InnerText() (string, error) {
	if e.innerTextErr != nil {
		return "", e.innerTextErr
	}
	return e.text, nil
}

// value returns the last text typed into the element.
func (e *fakeElement) value() string {
	if len(e.typed) == 0 {
		return ""
	}
	return e.typed[len(e.typed)-1]
}

// fakePage serves elements by CSS selector and XPath expression and counts
// every driver call.
type fakePage struct {
	elements map[string]*fakeElement // selector or xpath expression -> element
	url      string
	html     string

	gotoCalls     []string
	loadWaits     int
	selectorWaits []string
	xpathWaits    []string
	evaluated     []string
	closed        bool

	gotoErr error
	loadErr error
	evalErr error
}

func newFakePage() *fakePage {
	return &fakePage{elements: make(map[string]*fakeElement)}
}

func (p *fakePage) Goto(url string) error {
	p.gotoCalls = append(p.gotoCalls, url)
	if p.gotoErr != nil {
		return p.gotoErr
	}
	p.url = url
	return nil
}

func (p *fakePage) WaitForLoad(timeout time.Duration) error {
	p.loadWaits++
	return p.loadErr
}

func (p *fakePage) WaitForSelector(selector string, timeout time.Duration) (Element, error) {
	p.selectorWaits = append(p.selectorWaits, selector)
	element, ok := p.elements[selector]
	if !ok {
		return nil, fmt.Errorf("timeout waiting for %q", selector)
	}
	return element, nil
}

func (p *fakePage) WaitForXPath(expr string, timeout time.Duration) (Element, error) {
	p.xpathWaits = append(p.xpathWaits, expr)
	element, ok := p.elements[expr]
	if !ok {
		return nil, fmt.Errorf("timeout waiting for xpath %q", expr)
	}
	return element, nil
}

func (p *fakePage) Evaluate(script string) error {
	if p.evalErr != nil {
		return p.evalErr
	}
	p.evaluated = append(p.evaluated, script)
	return nil
}

func (p *fakePage) Content() (string, error) {
	if p.html == "" {
		return "", errors.New("no content")
	}
	return p.html, nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// driverCalls counts element queries issued to the fake driver.
func (p *fakePage) driverCalls() int {
	return len(p.gotoCalls) + p.loadWaits + len(p.selectorWaits) + len(p.xpathWaits) + len(p.evaluated)
}
