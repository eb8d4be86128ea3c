// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/integration/chart"
	"github.com/abelzeko/water-samples/internal/integration/excel"
	"github.com/abelzeko/water-samples/internal/integration/telegram"
	"github.com/abelzeko/water-samples/internal/session"
)

var (
	// ErrNotAuthenticated is returned when a session has not passed the credential check
	ErrNotAuthenticated = errors.New("session is not authenticated")
	// ErrInvalidForm wraps every form field that cannot be parsed
	ErrInvalidForm = errors.New("invalid form")
)

// SampleForm carries the raw submitted form values. Empty values take the
// same defaults the form widgets start with.
type SampleForm struct {
	Date             string // YYYY-MM-DD, defaults to today
	Time             string // HH:MM, defaults to now
	Device           string
	PhysicoChemical  string
	Microbiological1 string
	Microbiological2 string
	WaterType        string
	PH               string
	Chlorine         string
	Temperature      string
	Observations     string
	SampleType       string
	Sampler          string
}

// SampleUseCase handles sample submission and everything derived from a register
type SampleUseCase struct {
	notifier telegram.Notifier
	now      func() time.Time
}

// NewSampleUseCase creates a new sample use case. A nil notifier disables alerts.
func NewSampleUseCase(notifier telegram.Notifier) *SampleUseCase {
	if notifier == nil {
		notifier = telegram.NopNotifier{}
	}
	return &SampleUseCase{
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit parses the form, derives the sample code, appends the record to the session's
// register and recomputes the session's views. The caller holds the session lock.
func (uc *SampleUseCase) Submit(ctx context.Context, sess *session.Session, form SampleForm) (entities.SampleRecord, error) {
	if sess == nil || !sess.Identity.Authenticated() {
		return entities.SampleRecord{}, ErrNotAuthenticated
	}

	rec, err := uc.parseForm(form)
	if err != nil {
		return entities.SampleRecord{}, err
	}

	rec.Code, err = GenerateCode(sess.Register, rec.SampleType, rec.Date)
	if err != nil {
		return entities.SampleRecord{}, err
	}

	sess.Register.Append(rec)
	log.Printf("Accepted sample %s from user %s (%d in session)", rec.Code, sess.Identity.Username, sess.Register.Len())

	uc.Refresh(sess)

	if breaches := rec.Breaches(); len(breaches) > 0 {
		if err := uc.notifier.NotifyExceedance(ctx, rec, breaches); err != nil {
			log.Printf("Warning: failed to send threshold alert for %s: %v", rec.Code, err)
		}
	}

	return rec, nil
}

// Refresh recomputes the session's derived views from its current register
func (uc *SampleUseCase) Refresh(sess *session.Session) {
	sess.Views = BuildViews(sess.Register.Records())
}

// BuildViews derives the table and both charts from an ordered record sequence
func BuildViews(records []entities.SampleRecord) entities.ReportViews {
	views := entities.ReportViews{
		Headers: entities.Labels,
		Rows:    make([][]string, 0, len(records)),
	}
	for _, rec := range records {
		views.Rows = append(views.Rows, rec.Strings())
	}
	if len(records) == 0 {
		return views
	}

	var err error
	if views.PHChart, err = chart.RenderPH(records); err != nil {
		log.Printf("Warning: %v", err)
	}
	if views.ChlorineChart, err = chart.RenderChlorine(records); err != nil {
		log.Printf("Warning: %v", err)
	}
	return views
}

// Export serializes the session's register to an xlsx workbook
func (uc *SampleUseCase) Export(sess *session.Session) ([]byte, error) {
	records := sess.Register.Records()
	data, err := excel.Export(records)
	if err != nil {
		return nil, fmt.Errorf("failed to export %d samples: %w", len(records), err)
	}
	log.Printf("Exported %d samples for user %s", len(records), sess.Identity.Username)
	return data, nil
}

func (uc *SampleUseCase) parseForm(form SampleForm) (entities.SampleRecord, error) {
	var (
		rec entities.SampleRecord
		err error
	)
	now := uc.now()

	if strings.TrimSpace(form.Date) == "" {
		rec.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if rec.Date, err = time.Parse(entities.DateLayout, strings.TrimSpace(form.Date)); err != nil {
		return rec, fmt.Errorf("%w: fecha: %v", ErrInvalidForm, err)
	}

	rec.Time = strings.TrimSpace(form.Time)
	if rec.Time == "" {
		rec.Time = now.Format(entities.TimeLayout)
	} else {
		t, err := time.Parse(entities.TimeLayout, rec.Time)
		if err != nil {
			return rec, fmt.Errorf("%w: hora: %v", ErrInvalidForm, err)
		}
		rec.Time = t.Format(entities.TimeLayout)
	}

	if rec.Device, err = parseOr(form.Device, entities.DeviceHose, entities.ParseDevice); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if rec.PhysicoChemical, err = parseOr(form.PhysicoChemical, entities.YesNo(true), entities.ParseYesNo); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if rec.Microbiological1, err = parseOr(form.Microbiological1, entities.YesNo(true), entities.ParseYesNo); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if rec.Microbiological2, err = parseOr(form.Microbiological2, entities.YesNo(true), entities.ParseYesNo); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if rec.WaterType, err = parseOr(form.WaterType, entities.WaterPotable, entities.ParseWaterType); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if rec.SampleType, err = parseOr(form.SampleType, entities.SampleInternal, entities.ParseSampleType); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	if rec.PH, err = parseDecimal(entities.LabelPH, form.PH); err != nil {
		return rec, err
	}
	if rec.Chlorine, err = parseDecimal(entities.LabelChlorine, form.Chlorine); err != nil {
		return rec, err
	}
	if rec.Temperature, err = parseDecimal(entities.LabelTemperature, form.Temperature); err != nil {
		return rec, err
	}

	rec.Observations = strings.TrimSpace(form.Observations)
	rec.Sampler = strings.TrimSpace(form.Sampler)
	return rec, nil
}

// parseOr parses s, or returns def when s is blank
func parseOr[T any](s string, def T, parse func(string) (T, error)) (T, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return parse(s)
}

// parseDecimal accepts both "7.25" and "7,25"; blank means 0.00
func parseDecimal(label, s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidForm, label, s)
	}
	// round to the two decimals the form shows
	return math.Round(v*100) / 100, nil
}
