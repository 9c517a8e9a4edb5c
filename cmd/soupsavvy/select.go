package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sewcio543/soupsavvy-sub002/internal/model"
	"github.com/sewcio543/soupsavvy-sub002/internal/query"
)

type selectOutput struct {
	Ref      string `json:"ref"`
	Selector string `json:"selector"`
	Count    int    `json:"count"`
	Results  []any  `json:"results"`
}

func newSelectCmd(a *app) *cobra.Command {
	var (
		spec     model.SelectorSpec
		q        query.Query
		text     bool
		sanitize bool
		inner    bool
		attr     string
	)

	cmd := &cobra.Command{
		Use:   "select [file|dir|glob|url]...",
		Short: "Print the elements matched by a selector",
		Long: `Print the elements matched by a selector, one JSON document per input.

Exactly one of --css, --xpath, --tag, --id, --class or --attr names the
selector. Without inputs the document is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if attr != "" {
				name, value, _ := strings.Cut(attr, "=")
				spec.Attr, spec.Value = name, value
			}
			outputs := 0
			for _, set := range []bool{text, sanitize, inner} {
				if set {
					outputs++
				}
			}
			switch {
			case outputs > 1:
				return fmt.Errorf("%w: --text, --sanitize and --inner are exclusive", query.ErrInvalidQuery)
			case text:
				q.Output = query.OutputText
			case sanitize:
				q.Output = query.OutputSanitized
			case inner:
				q.Output = query.OutputInnerHTML
			}
			q.Select = spec

			compiled, err := q.Compile()
			if err != nil {
				return err
			}
			docs, err := a.documents(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			for _, doc := range docs {
				results, err := compiled.Run(doc.Root())
				if err != nil {
					return fmt.Errorf("%s: %w", doc.Ref, err)
				}
				a.logger.Debug("selected", zap.String("ref", doc.Ref), zap.Int("count", len(results)))
				if err := a.emit(cmd.OutOrStdout(), selectOutput{
					Ref:      doc.Ref,
					Selector: compiled.Selector().String(),
					Count:    len(results),
					Results:  results,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&spec.CSS, "css", "", "CSS selector")
	f.StringVar(&spec.XPath, "xpath", "", "XPath expression")
	f.StringVar(&spec.Tag, "tag", "", "tag name")
	f.StringVar(&spec.ID, "id", "", "id attribute value")
	f.StringVar(&spec.Class, "class", "", "class name")
	f.StringVar(&attr, "attr", "", "attribute as name or name=value")
	f.BoolVar(&spec.Regex, "regex", false, "treat --id, --class and --attr values as regular expressions")
	f.IntVar(&q.Limit, "limit", 0, "maximum number of matches per document (0 for all)")
	f.BoolVar(&q.NonRecursive, "non-recursive", false, "only match children of the document root")
	f.BoolVar(&q.First, "first", false, "only the first match")
	f.BoolVar(&q.Strict, "strict", false, "with --first, fail when nothing matches")
	f.BoolVar(&text, "text", false, "print stripped text instead of HTML")
	f.StringVar(&q.Separator, "separator", "", "separator joining text runs with --text")
	f.BoolVar(&sanitize, "sanitize", false, "print sanitized HTML")
	f.BoolVar(&inner, "inner", false, "print the inner HTML of each match")
	return cmd
}
