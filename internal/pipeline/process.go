package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yardgate/internal"
	"yardgate/internal/config"
	"yardgate/internal/directory"
	"yardgate/internal/ledger"
	"yardgate/internal/manifest"
	"yardgate/internal/rules"
	"yardgate/internal/storage"
)

// Service runs the full intake pipeline for one manifest: guard checks,
// validation, normalization, release paper dispatch, job number stamping and
// archiving. Each call builds its own state; nothing leaks between files.
type Service struct {
	db    *storage.DB
	cfg   config.Config
	rules *rules.Rulebook
	dir   *directory.Directory
	ldg   *ledger.Ledger
	log   *zap.Logger

	now func() time.Time
}

func NewService(db *storage.DB, cfg config.Config, rb *rules.Rulebook, dir *directory.Directory, ldg *ledger.Ledger, log *zap.Logger) *Service {
	return &Service{
		db:    db,
		cfg:   cfg,
		rules: rb,
		dir:   dir,
		ldg:   ldg,
		log:   log,
		now:   time.Now,
	}
}

func (s *Service) ProcessFile(path string, meta internal.IntakeMeta) (internal.Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return internal.Outcome{}, fmt.Errorf("read intake file: %w", err)
	}
	if meta.Filename == "" {
		meta.Filename = filepath.Base(path)
	}
	return s.Process(data, meta)
}

func (s *Service) Process(data []byte, meta internal.IntakeMeta) (internal.Outcome, error) {
	traceID := uuid.NewString()
	log := s.log.With(zap.String("trace", traceID), zap.String("file", meta.Filename))

	lower := strings.ToLower(meta.Filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		return internal.Outcome{}, fmt.Errorf("not a spreadsheet: %s", meta.Filename)
	}

	f, err := manifest.OpenBytes(data)
	if err != nil {
		return internal.Outcome{}, err
	}

	var manifestID int64
	if !meta.Shipping {
		if !f.Sheet.HasBookingMarker() {
			log.Info("no booking marker, ignoring file")
			return internal.Outcome{}, nil
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])
		seen, err := s.db.SeenHash(meta.GroupName, hash)
		if err != nil {
			return internal.Outcome{}, err
		}
		if seen {
			log.Info("duplicate manifest content")
			return internal.Outcome{Reply: DuplicateReply()}, nil
		}
		manifestID, err = s.db.InsertManifest(meta.Filename, meta.GroupName, hash)
		if err != nil {
			return internal.Outcome{}, err
		}
	}

	now := s.now()
	resolved := ResolveDate(f.Sheet.Cell(manifest.DateRow, manifest.DateCol), now, s.cfg.DateWindowDays)

	// A postponed resubmission declares its own target day, which may sit
	// outside the normal window.
	postponeDate, postponed := ParsePostponeDate(meta.Body, now.Location())

	ShiftLeadingEmptyRows(f.Sheet)

	report, customer := NewValidator(s.rules, s.dir).Validate(f.Sheet)
	if !postponed {
		report.DateError = resolved.Err
	}

	if f.Sheet.LastTruckRow() < manifest.DataStart {
		report.Add(1, "ບໍ່ພົບຂໍ້ມູນລົດໃນໄຟລ໌")
	}

	if !report.Empty() {
		log.Info("manifest rejected",
			zap.Int("rows", len(report.Rows)),
			zap.Bool("dateError", report.DateError != ""))
		s.record(traceID, manifestID, false, customer, "", "", report)
		return internal.Outcome{Reply: FormatErrorReply(report)}, nil
	}

	short := customer.Short
	if short == "" {
		short = directory.ShortFromName(customer.Name)
	}
	if strings.Contains(meta.GroupName, "MUM") && strings.Contains(meta.GroupName, "Napha") {
		short = "NAPHA_MUM"
	}

	useDate := resolved.Date
	if postponed {
		useDate = postponeDate
	}
	dateStr := DateStr(useDate)

	sentAt := meta.SentAt
	if sentAt.IsZero() {
		sentAt = now
	}
	timeStr := sentAt.Format("1504")

	norm := Normalize(f.Sheet, customer)
	cls := norm.Class

	// Past this point the manifest is accepted. Backing-store failures in the
	// dispatch, numbering and archive steps downgrade to warnings instead of
	// failing the whole run, since earlier side effects already happened.
	var degraded []string

	jobs := NewMatcher(s.rules).SelectPrintJobs(f.Sheet, cls, short, dateStr)
	printPaths, err := NewDispatcher(s.cfg.PrintQueueDir, s.rules).Dispatch(jobs, cls, dateStr)
	if err != nil {
		log.Warn("print dispatch failed", zap.Error(err))
		degraded = append(degraded, "print dispatch failed")
	}

	jobNo, err := s.ldg.GetOrCreate(customer.ID, customer.Name, useDate)
	if err != nil {
		log.Warn("job number allocation failed", zap.Error(err))
		degraded = append(degraded, "job number allocation failed")
	} else {
		StampJobNo(f.Sheet, jobNo)
	}

	outcome := internal.Outcome{
		Accepted:   true,
		JobNo:      jobNo,
		CustomerID: customer.ID,
		PrintPaths: printPaths,
	}

	if !meta.Shipping {
		archiver := NewArchiver(s.cfg.ArchiveRoot)
		archivePath, err := archiver.Archive(f, cls, short, useDate, timeStr, postponed)
		if err != nil {
			log.Warn("archive failed", zap.Error(err))
			degraded = append(degraded, "archive failed")
		} else {
			outcome.ArchivePath = archivePath

			if cls.HasContainer && cls.HasFCL && !cls.HasLolo {
				if _, err := archiver.WriteReEntry(f, cls, short, useDate, timeStr, postponed); err != nil {
					log.Warn("re-entry copy failed", zap.Error(err))
					degraded = append(degraded, "re-entry copy failed")
				}
			}
		}

		outcome.Reply = FormatAcceptedReply(norm.Cleaned, cls.MissingRemark)
		if cls.MissingRemark {
			outcome.Warnings = append(outcome.Warnings, "missing cargo type remark")
		}
		if len(degraded) > 0 {
			outcome.Reply += replyDegraded
		}
	}
	outcome.Warnings = append(outcome.Warnings, degraded...)

	log.Info("manifest accepted",
		zap.String("jobNo", jobNo),
		zap.String("customer", customer.ID),
		zap.Int("trucks", cls.TruckCount),
		zap.Int("printJobs", len(printPaths)),
		zap.Bool("lolo", cls.HasLolo))

	s.record(traceID, manifestID, true, customer, jobNo, outcome.ArchivePath, report)
	return outcome, nil
}

func (s *Service) record(traceID string, manifestID int64, accepted bool, customer RunCustomer, jobNo, archiveRef string, report *internal.ValidationReport) {
	if manifestID == 0 {
		return
	}
	status := "rejected"
	if accepted {
		status = "archived"
	}
	if err := s.db.UpdateManifestResult(manifestID, status, customer.ID, jobNo, archiveRef); err != nil {
		s.log.Warn("update manifest row failed", zap.Error(err))
	}
	counts := map[string]int{"rowErrors": len(report.Rows)}
	if err := s.db.InsertRun(traceID, manifestID, accepted, counts); err != nil {
		s.log.Warn("insert run failed", zap.Error(err))
	}
}
