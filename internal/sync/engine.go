// Package sync orchestrates one batch run: extract signup rows from
// ActionKit, normalize each record, upsert it into VAN, and apply at most
// one survey response or activist code per record.
package sync

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fieldworks/signup-sync/internal/normalize"
	"github.com/fieldworks/signup-sync/internal/tagmap"
	"github.com/fieldworks/signup-sync/pkg/actionkit"
	"github.com/fieldworks/signup-sync/pkg/ticker"
	"github.com/fieldworks/signup-sync/pkg/van"
)

// RowSource extracts signup rows. Satisfied by actionkit.Client.
type RowSource interface {
	RunReport(ctx context.Context, query string) ([][]any, error)
}

// CRM is the subset of VAN operations the engine needs. Satisfied by
// van.Client.
type CRM interface {
	FindOrCreatePerson(ctx context.Context, p van.Person) (int, error)
	VerifyPhone(ctx context.Context, phone string) (bool, error)
	ApplySurveyResponse(ctx context.Context, vanID, questionID, responseID int, dateCanvassed string) error
	ApplyActivistCode(ctx context.Context, vanID, codeID int, dateCanvassed string) error
}

// Reporter posts the end-of-run counts. Satisfied by ticker.Client.
type Reporter interface {
	Report(ctx context.Context, r ticker.RunReport) error
}

// Options controls a single run.
type Options struct {
	PageID       int
	LookbackDays int
	// DryRun extracts and normalizes but performs no VAN calls.
	DryRun bool
}

// Summary is the bookkeeping for one run. ContactsUpserted counts distinct
// VAN ids, so several rows for the same signer count once.
type Summary struct {
	RunID                  string
	RowsFetched            int
	RecordsSynced          int
	RecordsFailed          int
	ContactsUpserted       int
	SurveyResponsesApplied int
	ActivistCodesApplied   int
}

// Engine runs the sync. Records are processed strictly in extraction
// order, one at a time; a failed record is logged and skipped.
type Engine struct {
	source     RowSource
	crm        CRM
	reporter   Reporter // nil disables ticker reporting
	scriptName string
	log        *zap.Logger
}

// NewEngine wires a sync engine from its collaborators.
func NewEngine(source RowSource, crm CRM, reporter Reporter, scriptName string) *Engine {
	return &Engine{
		source:     source,
		crm:        crm,
		reporter:   reporter,
		scriptName: scriptName,
		log:        zap.L(),
	}
}

// Run executes one batch run and returns its summary. Only extraction
// failure aborts the run; per-record failures are counted and skipped.
func (e *Engine) Run(ctx context.Context, opts Options) (*Summary, error) {
	runID := uuid.NewString()
	log := e.log.With(zap.String("run_id", runID))

	rows, err := e.source.RunReport(ctx, actionkit.BuildSignupQuery(opts.PageID, opts.LookbackDays))
	if err != nil {
		return nil, eris.Wrap(err, "sync: run signup report")
	}

	sum := &Summary{RunID: runID, RowsFetched: len(rows)}
	contacts := make(map[int]struct{})

	for i, row := range rows {
		rec, err := RecordFromRow(row)
		if err != nil {
			sum.RecordsFailed++
			log.Warn("skipping malformed row", zap.Int("row", i), zap.Error(err))
			continue
		}

		if opts.DryRun {
			e.logDryRun(log, rec)
			sum.RecordsSynced++
			continue
		}

		res, err := e.syncRecord(ctx, log, rec)
		if res.vanID != 0 {
			contacts[res.vanID] = struct{}{}
		}
		if err != nil {
			sum.RecordsFailed++
			log.Warn("record sync failed",
				zap.Int("row", i),
				zap.String("user_id", rec.UserID),
				zap.Error(err),
			)
			continue
		}
		sum.RecordsSynced++
		switch res.applied {
		case appliedSurvey:
			sum.SurveyResponsesApplied++
		case appliedActivist:
			sum.ActivistCodesApplied++
		}
	}
	sum.ContactsUpserted = len(contacts)

	log.Info("sync run complete",
		zap.Int("rows_fetched", sum.RowsFetched),
		zap.Int("records_synced", sum.RecordsSynced),
		zap.Int("records_failed", sum.RecordsFailed),
		zap.Int("contacts_upserted", sum.ContactsUpserted),
		zap.Int("survey_responses_applied", sum.SurveyResponsesApplied),
		zap.Int("activist_codes_applied", sum.ActivistCodesApplied),
		zap.Bool("dry_run", opts.DryRun),
	)

	if e.reporter != nil && !opts.DryRun {
		report := ticker.RunReport{
			ScriptName:             e.scriptName,
			RunID:                  runID,
			ContactsUpserted:       sum.ContactsUpserted,
			ActivistCodesApplied:   sum.ActivistCodesApplied,
			SurveyResponsesApplied: sum.SurveyResponsesApplied,
			FinishedAt:             time.Now().UTC(),
		}
		if err := e.reporter.Report(ctx, report); err != nil {
			log.Warn("ticker report failed", zap.Error(err))
		}
	}

	return sum, nil
}

type appliedKind int

const (
	appliedNone appliedKind = iota
	appliedSurvey
	appliedActivist
)

type syncResult struct {
	vanID   int
	applied appliedKind
}

// syncRecord upserts one record and applies its tag, if any. The returned
// vanID is non-zero whenever the upsert went through, even if a later step
// failed; partial application is accepted and never rolled back.
func (e *Engine) syncRecord(ctx context.Context, log *zap.Logger, rec Record) (syncResult, error) {
	person := e.buildPerson(ctx, log, rec)

	vanID, err := e.crm.FindOrCreatePerson(ctx, person)
	if err != nil {
		return syncResult{}, eris.Wrap(err, "sync: find or create person")
	}
	res := syncResult{vanID: vanID}

	dateCanvassed, err := CanvassDate(rec.UpdatedAt)
	if err != nil {
		return res, err
	}

	switch tag := tagmap.Resolve(rec.QuestionName, rec.QuestionResponse); tag.Kind {
	case tagmap.KindSurvey:
		if err := e.crm.ApplySurveyResponse(ctx, vanID, tag.QuestionID, tag.ResponseID, dateCanvassed); err != nil {
			return res, eris.Wrap(err, "sync: apply survey response")
		}
		res.applied = appliedSurvey
	case tagmap.KindActivistCode:
		if err := e.crm.ApplyActivistCode(ctx, vanID, tag.ActivistCodeID, dateCanvassed); err != nil {
			return res, eris.Wrap(err, "sync: apply activist code")
		}
		res.applied = appliedActivist
	}
	return res, nil
}

// buildPerson assembles the findOrCreate payload. The emails and phones
// blocks are only attached when their value survived normalization.
func (e *Engine) buildPerson(ctx context.Context, log *zap.Logger, rec Record) van.Person {
	p := van.Person{
		FirstName:  normalize.Name(rec.FirstName),
		MiddleName: normalize.Name(rec.MiddleName),
		LastName:   normalize.Name(rec.LastName),
		Sex:        normalize.Sex(rec.QuestionName, rec.QuestionResponse),
		Addresses: []van.Address{{
			City:            normalize.Name(rec.City),
			StateOrProvince: normalize.Name(rec.State),
			ZipOrPostalCode: normalize.Zip(rec.Zip),
		}},
	}

	if email := normalize.Email(rec.Email); email != "" {
		p.Emails = []van.Email{{
			Email:              email,
			SubscriptionStatus: normalize.SubscribeStatus(rec.EmailSubscriptionStatus),
		}}
	}

	if phone := e.verifiedPhone(ctx, log, rec.Phone); phone != "" {
		p.Phones = []van.Phone{{
			PhoneNumber:      phone,
			PhoneOptInStatus: normalize.OptIn(rec.QuestionName, rec.QuestionResponse),
		}}
	}

	return p
}

// verifiedPhone keeps the raw phone only when VAN confirms it is
// deliverable. Verification trouble of any kind degrades to no phone.
func (e *Engine) verifiedPhone(ctx context.Context, log *zap.Logger, phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	ok, err := e.crm.VerifyPhone(ctx, phone)
	if err != nil {
		log.Warn("phone verification unavailable, dropping phone", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return phone
}

func (e *Engine) logDryRun(log *zap.Logger, rec Record) {
	tag := tagmap.Resolve(rec.QuestionName, rec.QuestionResponse)
	log.Info("dry run record",
		zap.String("user_id", rec.UserID),
		zap.String("first_name", normalize.Name(rec.FirstName)),
		zap.String("last_name", normalize.Name(rec.LastName)),
		zap.String("zip", normalize.Zip(rec.Zip)),
		zap.String("email", normalize.Email(rec.Email)),
		zap.String("question", rec.QuestionName),
		zap.Int("survey_question_id", tag.QuestionID),
		zap.Int("survey_response_id", tag.ResponseID),
		zap.Int("activist_code_id", tag.ActivistCodeID),
	)
}
