package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/service/dashboard"
)

var exportOpts struct {
	out        string
	orgID      string
	status     string
	direction  string
	templateID string
	entityType string
	action     string
	limit      int
}

var exportCmd = &cobra.Command{
	Use:       "export <logs|audit|orgs|suppressions>",
	Short:     "Write a dataset as CSV",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"logs", "audit", "orgs", "suppressions"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, ok := dashboard.ParseDataset(args[0])
		if !ok {
			return fmt.Errorf("unknown dataset %q", args[0])
		}
		f, err := exportFilter()
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		var w io.Writer = cmd.OutOrStdout()
		if exportOpts.out != "" && exportOpts.out != "-" {
			file, err := os.Create(exportOpts.out)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOpts.out, err)
			}
			defer file.Close()
			w = file
		}

		dash := dashboard.New(be.Repos, cfg.Preview.Variables)
		n, err := dash.Export(cmd.Context(), w, ds, f)
		if err != nil {
			return err
		}
		logger.Log.Info("export complete", zap.String("dataset", string(ds)), zap.Int("rows", n))
		return nil
	},
}

func init() {
	fl := exportCmd.Flags()
	fl.StringVarP(&exportOpts.out, "out", "o", "", "output file (default stdout)")
	fl.StringVar(&exportOpts.orgID, "org", "", "organization id (logs, suppressions)")
	fl.StringVar(&exportOpts.status, "status", "", "message status (logs)")
	fl.StringVar(&exportOpts.direction, "direction", "", "INBOUND or OUTBOUND (logs)")
	fl.StringVar(&exportOpts.templateID, "template", "", "template id (logs)")
	fl.StringVar(&exportOpts.entityType, "entity-type", "", "entity type (audit)")
	fl.StringVar(&exportOpts.action, "action", "", "audit action (audit)")
	fl.IntVar(&exportOpts.limit, "limit", 0, "max rows for logs and audit (0 = all)")
}

func exportFilter() (dashboard.ExportFilter, error) {
	f := dashboard.ExportFilter{
		Logs:  model.LogFilter{OrgID: exportOpts.orgID, TemplateID: exportOpts.templateID, Limit: exportOpts.limit},
		Audit: model.AuditFilter{Limit: exportOpts.limit},
		OrgID: exportOpts.orgID,
	}
	if exportOpts.status != "" {
		st, ok := model.ParseMessageStatus(exportOpts.status)
		if !ok {
			return f, fmt.Errorf("unknown status %q", exportOpts.status)
		}
		f.Logs.Status = st
	}
	if exportOpts.direction != "" {
		d, ok := model.ParseDirection(exportOpts.direction)
		if !ok {
			return f, fmt.Errorf("unknown direction %q", exportOpts.direction)
		}
		f.Logs.Direction = d
	}
	if exportOpts.entityType != "" {
		et := model.EntityType(strings.ToUpper(exportOpts.entityType))
		if !et.Valid() {
			return f, fmt.Errorf("unknown entity type %q", exportOpts.entityType)
		}
		f.Audit.EntityType = et
	}
	if exportOpts.action != "" {
		a := model.AuditAction(strings.ToUpper(exportOpts.action))
		if !a.Valid() {
			return f, fmt.Errorf("unknown action %q", exportOpts.action)
		}
		f.Audit.Action = a
	}
	return f, nil
}
