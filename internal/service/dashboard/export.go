package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jmehdipour/sms-admin/internal/export"
	"github.com/jmehdipour/sms-admin/internal/metrics"
	"github.com/jmehdipour/sms-admin/internal/model"
)

// Dataset names an exportable collection.
type Dataset string

const (
	DatasetLogs         Dataset = "logs"
	DatasetAudit        Dataset = "audit"
	DatasetOrgs         Dataset = "orgs"
	DatasetSuppressions Dataset = "suppressions"
)

var Datasets = []Dataset{DatasetLogs, DatasetAudit, DatasetOrgs, DatasetSuppressions}

func ParseDataset(s string) (Dataset, bool) {
	d := Dataset(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DatasetLogs, DatasetAudit, DatasetOrgs, DatasetSuppressions:
		return d, true
	}
	return d, false
}

// ExportFilter narrows an export. Logs applies to logs, Audit to audit and
// OrgID to suppressions.
type ExportFilter struct {
	Logs  model.LogFilter
	Audit model.AuditFilter
	OrgID string
}

// Export writes the dataset as CSV to w and returns the row count.
func (s *Service) Export(ctx context.Context, w io.Writer, ds Dataset, f ExportFilter) (int, error) {
	records, columns, err := s.records(ctx, ds, f)
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, records, columns); err != nil {
		return 0, fmt.Errorf("write %s csv: %w", ds, err)
	}
	metrics.ExportRowsTotal.WithLabelValues(string(ds)).Add(float64(len(records)))
	return len(records), nil
}

func (s *Service) records(ctx context.Context, ds Dataset, f ExportFilter) ([]export.Record, []export.Column, error) {
	switch ds {
	case DatasetLogs:
		logs, err := s.repos.Logs.List(ctx, f.Logs)
		if err != nil {
			return nil, nil, fmt.Errorf("list logs: %w", err)
		}
		return export.LogRecords(logs), export.LogColumns, nil

	case DatasetAudit:
		entries, err := s.repos.Audit.List(ctx, f.Audit)
		if err != nil {
			return nil, nil, fmt.Errorf("list audit: %w", err)
		}
		return export.AuditRecords(entries), export.AuditColumns, nil

	case DatasetOrgs:
		orgs, err := s.repos.Organizations.List(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list orgs: %w", err)
		}
		return export.OrgRecords(orgs), export.OrgColumns, nil

	case DatasetSuppressions:
		var (
			sups []model.Suppression
			err  error
		)
		if f.OrgID != "" {
			sups, err = s.repos.Suppressions.ListByOrg(ctx, f.OrgID)
		} else {
			sups, err = s.repos.Suppressions.ListAll(ctx)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("list suppressions: %w", err)
		}
		return export.SuppressionRecords(sups), export.SuppressionColumns, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset %q", ds)
}
