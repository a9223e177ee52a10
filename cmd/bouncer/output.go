package main

//
// Printing discoveries
//

import (
	"github.com/apex/log"
	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/ooni/probe-bouncer/internal/must"
	"github.com/spf13/cobra"
)

// discoveryOutput is what we print after a discovery.
type discoveryOutput struct {
	BaseURL    string                `json:"base_url"`
	Collectors []model.BouncerRecord `json:"collectors"`
	Helpers    []helperOutput        `json:"helpers"`
}

// helperOutput contains the records of a given test helper.
type helperOutput struct {
	Name    string                `json:"name"`
	Records []model.BouncerRecord `json:"records"`
}

// newDiscoveryOutput creates a [*discoveryOutput] preserving the order of the keys.
func newDiscoveryOutput(baseURL string, collectors []model.BouncerRecord,
	keys []string, helpers func(key string) []model.BouncerRecord) *discoveryOutput {
	out := &discoveryOutput{
		BaseURL:    baseURL,
		Collectors: collectors,
		Helpers:    []helperOutput{},
	}
	if out.Collectors == nil {
		out.Collectors = []model.BouncerRecord{}
	}
	for _, key := range keys {
		records := helpers(key)
		if records == nil {
			records = []model.BouncerRecord{}
		}
		out.Helpers = append(out.Helpers, helperOutput{Name: key, Records: records})
	}
	return out
}

// print prints the discovery either as JSON on the standard output or as
// tables using the logger.
func (out *discoveryOutput) print(cmd *cobra.Command, logger log.Interface, asJSON bool) error {
	if asJSON {
		data := must.MarshalAndIndentJSON(out, "", "  ")
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	logger.WithFields(log.Fields{
		"type":  "section_title",
		"title": "Collectors",
	}).Info("Collectors")
	for _, record := range out.Collectors {
		logRecord(logger, "collector", record)
	}
	for _, helper := range out.Helpers {
		logger.WithFields(log.Fields{
			"type":  "section_title",
			"title": helper.Name,
		}).Info(helper.Name)
		for _, record := range helper.Records {
			logRecord(logger, helper.Name, record)
		}
	}
	return nil
}

// logRecord logs a record as a table.
func logRecord(logger log.Interface, what string, record model.BouncerRecord) {
	fields := log.Fields{
		"type":    "table",
		"address": record.Address,
	}
	if record.Type != "" {
		fields["kind"] = record.Type
	}
	if record.Front != "" {
		fields["front"] = record.Front
	}
	logger.WithFields(fields).Info(what)
}
