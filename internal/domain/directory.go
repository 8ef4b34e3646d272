package domain

import "sort"

// Directory is the curated set of known people and the companies they belong to.
// People keep insertion order; matching breaks ties by that order.
type Directory struct {
	people    []PersonRecord
	byEmail   map[string]int
	companies map[string]struct{}
}

// NewDirectory builds a directory from existing records. Duplicate emails keep the first record.
func NewDirectory(people []PersonRecord, companies []string) *Directory {
	d := &Directory{
		byEmail:   make(map[string]int, len(people)),
		companies: make(map[string]struct{}, len(companies)),
	}
	for _, p := range people {
		d.Add(p)
	}
	for _, c := range companies {
		d.AddCompany(c)
	}
	return d
}

// Add appends a person unless the email is already known. It returns false for duplicates.
func (d *Directory) Add(p PersonRecord) bool {
	if _, exists := d.byEmail[p.Email]; exists {
		return false
	}
	d.byEmail[p.Email] = len(d.people)
	d.people = append(d.people, p)
	if p.Company != "" {
		d.companies[p.Company] = struct{}{}
	}
	return true
}

// AddCompany registers a company identifier.
func (d *Directory) AddCompany(company string) {
	if company == "" {
		return
	}
	d.companies[company] = struct{}{}
}

// Has reports whether the email is present.
func (d *Directory) Has(email string) bool {
	_, ok := d.byEmail[email]
	return ok
}

// Get returns the person with the given email.
func (d *Directory) Get(email string) (PersonRecord, bool) {
	idx, ok := d.byEmail[email]
	if !ok {
		return PersonRecord{}, false
	}
	return d.people[idx], true
}

// People returns a copy of all records in insertion order.
func (d *Directory) People() []PersonRecord {
	out := make([]PersonRecord, len(d.people))
	copy(out, d.people)
	return out
}

// Companies returns known company identifiers sorted alphabetically.
func (d *Directory) Companies() []string {
	out := make([]string, 0, len(d.companies))
	for c := range d.companies {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of people.
func (d *Directory) Len() int {
	return len(d.people)
}

// Clone returns an independent copy, used to stage a load batch before it is persisted.
func (d *Directory) Clone() *Directory {
	return NewDirectory(d.people, d.Companies())
}
