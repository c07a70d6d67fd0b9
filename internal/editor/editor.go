// Package editor holds the document of one editing session. Every mutation works on a
// clone of the current snapshot, revalidates it and publishes the result to a validity flag
// before returning.
package editor

import (
	"sync"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/jonathan/resume-builder/internal/validity"
)

// Editor serialises mutations of a resume document.
//
// The validity flag is set while the editor lock is held, so flag subscribers must not call
// back into the editor.
type Editor struct {
	mu     sync.Mutex
	tmpl   types.Template
	doc    types.ResumeDocument
	result validation.Result
	flag   *validity.Flag
}

// New starts a session with a default document. A nil flag gets a private one.
func New(tmpl types.Template, flag *validity.Flag) *Editor {
	tmpl = types.ParseTemplate(string(tmpl))
	return NewWithDocument(types.NewResumeDocument(tmpl), tmpl, flag)
}

// NewWithDocument starts a session on a copy of doc.
func NewWithDocument(doc types.ResumeDocument, tmpl types.Template, flag *validity.Flag) *Editor {
	if flag == nil {
		flag = validity.NewFlag(false)
	}
	e := &Editor{tmpl: types.ParseTemplate(string(tmpl)), flag: flag}
	next := doc.Clone()
	next.Template = e.tmpl
	e.commit(next)
	return e
}

// Snapshot returns a copy of the current document.
func (e *Editor) Snapshot() types.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Template returns the active template.
func (e *Editor) Template() types.Template {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tmpl
}

// Result returns the validation result of the current document.
func (e *Editor) Result() validation.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Valid reports whether the current document passed validation.
func (e *Editor) Valid() bool {
	return e.Result().IsValid
}

// Flag returns the validity flag this editor publishes to.
func (e *Editor) Flag() *validity.Flag {
	return e.flag
}

// Gates returns the add-action gates of the current document.
func (e *Editor) Gates() validation.Gates {
	e.mu.Lock()
	defer e.mu.Unlock()
	return validation.ComputeGates(&e.doc, e.tmpl)
}

// SetTemplate switches the template and revalidates. Experience data is kept.
func (e *Editor) SetTemplate(tmpl types.Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tmpl = types.ParseTemplate(string(tmpl))
	next := e.doc.Clone()
	next.Template = e.tmpl
	e.commit(next)
}

// Replace swaps in a whole document, e.g. after import or tailoring. The document's own
// template field is overwritten with the active template.
func (e *Editor) Replace(doc types.ResumeDocument) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := doc.Clone()
	next.Template = e.tmpl
	e.commit(next)
}

// SetField writes value at a field path such as "personal.email" or "projects[0].tasks[2]".
func (e *Editor) SetField(path string, value string) error {
	p, err := validation.ParsePath(path)
	if err != nil {
		return err
	}

	return e.mutate(func(doc *types.ResumeDocument) error {
		switch p.Section {
		case validation.SectionPersonal:
			f, _ := validation.LookupPersonalField(p.Field)
			if f.MaxLen > 0 && utf8.RuneCountInString(value) > f.MaxLen {
				return &FieldTooLongError{Path: path, MaxLen: f.MaxLen}
			}
			f.Set(&doc.Personal, value)

		case validation.SectionSkills:
			if err := checkIndex(p.Section, p.Index, len(doc.Skills)); err != nil {
				return err
			}
			doc.Skills[p.Index] = value

		case validation.SectionExperience:
			if err := e.requireExperience(); err != nil {
				return err
			}
			if err := checkIndex(p.Section, p.Index, len(doc.Experience)); err != nil {
				return err
			}
			entry := &doc.Experience[p.Index]
			if p.Task >= 0 {
				return setTask(p.Section, entry.Tasks, p.Task, value)
			}
			f, _ := validation.LookupExperienceField(p.Field)
			f.Set(entry, value)

		case validation.SectionProjects:
			if err := checkIndex(p.Section, p.Index, len(doc.Projects)); err != nil {
				return err
			}
			entry := &doc.Projects[p.Index]
			if p.Task >= 0 {
				return setTask(p.Section, entry.Tasks, p.Task, value)
			}
			f, _ := validation.LookupProjectField(p.Field)
			f.Set(entry, value)

		case validation.SectionEducation:
			if err := checkIndex(p.Section, p.Index, len(doc.Education)); err != nil {
				return err
			}
			f, _ := validation.LookupEducationField(p.Field)
			f.Set(&doc.Education[p.Index], value)
		}
		return nil
	})
}

// mutate applies fn to a clone of the current document and commits it when fn succeeds.
func (e *Editor) mutate(fn func(doc *types.ResumeDocument) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	e.commit(next)
	return nil
}

// commit must be called with mu held.
func (e *Editor) commit(next types.ResumeDocument) {
	e.doc = next
	e.result = validation.Validate(&e.doc, e.tmpl)
	e.flag.Set(e.result.IsValid)
}

func (e *Editor) requireExperience() error {
	if !e.tmpl.ShowsExperience() {
		return &TemplateError{Section: string(validation.SectionExperience), Template: string(e.tmpl)}
	}
	return nil
}

func checkIndex(section validation.Section, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Section: string(section), Index: i, Len: n}
	}
	return nil
}

func setTask(section validation.Section, tasks []string, j int, value string) error {
	if err := checkIndex(section+".tasks", j, len(tasks)); err != nil {
		return err
	}
	tasks[j] = value
	return nil
}
