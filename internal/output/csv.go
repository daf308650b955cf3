/*
PURPOSE:
  Writes the generated test cases to a CSV file for spreadsheet review.

REQUIREMENTS:
  Implementation-discovered:
  - One header row, then one row per test case in document order.
  - Same atomic-replace guarantee as the JSON document.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (only when --csv is set)
  - Consumes: internal/model.TestCase

ERROR HANDLING:
  - Returns error on file creation or write failure.

MAINTENANCE:
  - Update csvHeader and record() when TestCase changes.
*/

package output

import (
	"encoding/csv"
	"strconv"

	"github.com/google/renameio/v2"

	"github.com/daryltucker/sd-testgen/internal/model"
)

var csvHeader = []string{
	"name", "description", "model", "model_type", "instance_type",
	"batch_size", "inference_steps", "image_width", "image_height",
	"precision", "prompt", "memory_request", "memory_limit", "timeout",
}

// WriteCSV atomically replaces path with a CSV listing of tests.
func WriteCSV(path string, tests []model.TestCase) error {
	return writeAtomic(path, func(pf *renameio.PendingFile) error {
		w := csv.NewWriter(pf)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, t := range tests {
			if err := w.Write(record(t)); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func record(t model.TestCase) []string {
	return []string{
		t.Name,
		t.Description,
		t.Model,
		t.ModelType,
		t.InstanceType,
		strconv.Itoa(t.BatchSize),
		strconv.Itoa(t.InferenceSteps),
		strconv.Itoa(t.ImageWidth),
		strconv.Itoa(t.ImageHeight),
		t.Precision,
		t.Prompt,
		t.MemoryRequest,
		t.MemoryLimit,
		strconv.Itoa(t.Timeout),
	}
}
