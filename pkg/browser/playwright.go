package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// playwrightPage adapts a Playwright page to the Page interface.
type playwrightPage struct {
	page playwright.Page
}

func newPlaywrightPage(page playwright.Page) *playwrightPage {
	return &playwrightPage{page: page}
}

func (p *playwrightPage) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

func (p *playwrightPage) WaitForLoad(timeout time.Duration) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) WaitForSelector(selector string, timeout time.Duration) (Element, error) {
	handle, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return &playwrightElement{handle: handle}, nil
}

func (p *playwrightPage) WaitForXPath(expr string, timeout time.Duration) (Element, error) {
	return p.WaitForSelector("xpath="+expr, timeout)
}

func (p *playwrightPage) Evaluate(script string) error {
	_, err := p.page.Evaluate(script)
	return err
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

// playwrightElement adapts a Playwright element handle to Element.
type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Click() error {
	return e.handle.Click()
}

func (e *playwrightElement) ScrollIntoView() error {
	return e.handle.ScrollIntoViewIfNeeded()
}

func (e *playwrightElement) Type(text string) error {
	return e.handle.Type(text)
}

func (e *playwrightElement) InnerText() (string, error) {
	return e.handle.InnerText()
}
