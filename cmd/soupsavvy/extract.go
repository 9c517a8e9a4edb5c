package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sewcio543/soupsavvy-sub002/internal/model"
)

type extractOutput struct {
	Ref     string          `json:"ref"`
	Model   string          `json:"model"`
	Count   int             `json:"count"`
	Records []*model.Record `json:"records"`
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		schemaPath   string
		limit        int
		nonRecursive bool
		first        bool
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "extract --schema FILE [file|dir|glob|url]...",
		Short: "Extract records described by a schema file",
		Long: `Extract records described by a schema file, one JSON document per input.

The schema is YAML, TOML or JSON, chosen by the file extension. Every match
of the schema scope becomes one record. Without inputs the document is read
from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaPath == "" {
				return errors.New("--schema is required")
			}
			schema, err := model.LoadSchema(schemaPath)
			if err != nil {
				return err
			}
			docs, err := a.documents(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			for _, doc := range docs {
				var records []*model.Record
				if first {
					record, err := schema.Extract(doc.Root(), strict, !nonRecursive)
					if err != nil {
						return fmt.Errorf("%s: %w", doc.Ref, err)
					}
					if record != nil {
						records = append(records, record)
					}
				} else {
					records, err = schema.ExtractAll(doc.Root(), !nonRecursive, limit)
					if err != nil {
						return fmt.Errorf("%s: %w", doc.Ref, err)
					}
				}
				if records == nil {
					records = []*model.Record{}
				}

				a.logger.Debug("extracted",
					zap.String("ref", doc.Ref),
					zap.String("model", schema.Name()),
					zap.Int("count", len(records)),
				)
				if err := a.emit(cmd.OutOrStdout(), extractOutput{
					Ref:     doc.Ref,
					Model:   schema.Name(),
					Count:   len(records),
					Records: records,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&schemaPath, "schema", "s", "", "schema file (.yaml, .yml, .toml or .json)")
	f.IntVar(&limit, "limit", 0, "maximum number of records per document (0 for all)")
	f.BoolVar(&nonRecursive, "non-recursive", false, "only match the scope among children of the document root")
	f.BoolVar(&first, "first", false, "only the first record")
	f.BoolVar(&strict, "strict", false, "with --first, fail when the scope is not found")
	return cmd
}
