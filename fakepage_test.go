package main

import "io"

// fakePage implements the Page capability for tests. Per-selector error maps
// simulate a storefront that fails individual interactions.
type fakePage struct {
	navigated []string
	fills     []fakeFill
	clicks    []string
	checks    []string
	presses   []string
	armed     []string

	navErr       map[string]error
	fillErr      map[string]error
	clickErr     map[string]error
	checkErr     error
	isCheckedErr error
	checked      bool
	waitErr      error

	content    string
	contentErr error
	url        string
	urlErr     error
}

type fakeFill struct {
	selector string
	value    string
}

func (p *fakePage) Navigate(url string) error {
	p.navigated = append(p.navigated, url)
	return p.navErr[url]
}

func (p *fakePage) Fill(selector, value string) error {
	p.fills = append(p.fills, fakeFill{selector, value})
	return p.fillErr[selector]
}

func (p *fakePage) Click(selector string) error {
	p.clicks = append(p.clicks, selector)
	return p.clickErr[selector]
}

func (p *fakePage) Check(selector string) error {
	p.checks = append(p.checks, selector)
	return p.checkErr
}

func (p *fakePage) IsChecked(selector string) (bool, error) {
	return p.checked, p.isCheckedErr
}

func (p *fakePage) Press(key string) error {
	p.presses = append(p.presses, key)
	return nil
}

func (p *fakePage) Content() (string, error) {
	return p.content, p.contentErr
}

func (p *fakePage) URL() (string, error) {
	return p.url, p.urlErr
}

func (p *fakePage) ExpectResponse(urlPart string) func() error {
	p.armed = append(p.armed, urlPart)
	return func() error { return p.waitErr }
}

func (p *fakePage) countClicks(selector string) int {
	n := 0
	for _, c := range p.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

func (p *fakePage) countFills(selector string) int {
	n := 0
	for _, f := range p.fills {
		if f.selector == selector {
			n++
		}
	}
	return n
}

// fakeSession counts releases so tests can assert the session lifecycle.
type fakeSession struct {
	page       Page
	acquireErr error
	released   int
}

func (s *fakeSession) Acquire() (Page, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	return s.page, nil
}

func (s *fakeSession) Release() {
	s.released++
}

// noDelay makes tests deterministic and fast.
type noDelay struct{}

func (noDelay) Sleep(min, max float64) {}

func testLog() *RunLog {
	return NewRunLog("test", io.Discard)
}

func validCheckoutInfo() CheckoutInfo {
	return CheckoutInfo{
		Email:        "cliente@example.com",
		FirstName:    "Maria",
		LastName:     "Silva",
		CPF:          "123.456.789-00",
		CEP:          "01310-100",
		Address1:     "Avenida Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		Phone:        "(11) 91234-5678",
	}
}
