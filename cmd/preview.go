package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/sms-admin/internal/service/dashboard"
	"github.com/jmehdipour/sms-admin/internal/template"
)

var previewOpts struct {
	body       string
	orgID      string
	templateID string
	vars       map[string]string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a template body with sample or custom variables",
	Example: `  sms-admin preview --body "Hi {{first_name}}" --var first_name=Ana
  sms-admin preview --org org-1 --template tpl-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		byTemplate := previewOpts.orgID != "" || previewOpts.templateID != ""
		if byTemplate && (previewOpts.orgID == "" || previewOpts.templateID == "") {
			return errors.New("--org and --template go together")
		}
		if !byTemplate && previewOpts.body == "" {
			return errors.New("either --body or --org with --template is required")
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

		dash := dashboard.New(be.Repos, cfg.Preview.Variables)
		out := cmd.OutOrStdout()

		var p template.Preview
		if byTemplate {
			view, err := dash.OverrideView(cmd.Context(), previewOpts.orgID, previewOpts.templateID, previewOpts.vars)
			if err != nil {
				return err
			}
			p = view.Preview
			fmt.Fprintf(out, "source: %s\n", view.Resolution.Source)
			if view.QuietNow {
				fmt.Fprintln(out, "note: quiet hours are active for this organization now")
			}
		} else {
			p = dash.Preview(previewOpts.body, previewOpts.vars)
		}

		fmt.Fprintln(out, p.Body)
		fmt.Fprintf(out, "characters: %d, segments: %d\n", p.Characters, p.Segments)
		if len(p.Unresolved) > 0 {
			fmt.Fprintf(out, "unresolved: %s\n", strings.Join(p.Unresolved, ", "))
		}
		return nil
	},
}

func init() {
	fl := previewCmd.Flags()
	fl.StringVar(&previewOpts.body, "body", "", "template body to render")
	fl.StringVar(&previewOpts.orgID, "org", "", "organization id")
	fl.StringVar(&previewOpts.templateID, "template", "", "template id")
	fl.StringToStringVar(&previewOpts.vars, "var", nil, "variable value, e.g. --var first_name=Ana (repeatable)")
}
