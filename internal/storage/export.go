package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/eulerode/internal/sim"
)

type ExportData struct {
	Model   string             `json:"model"`
	Method  string             `json:"method"`
	T0      float64            `json:"t0"`
	TBound  float64            `json:"t_bound"`
	Status  string             `json:"status"`
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Steps   int                `json:"steps"`
	NFev    int                `json:"nfev"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics"`
}

func NewExportData(model, method string, t0, tBound float64, result *sim.Result) ExportData {
	data := ExportData{
		Model:   model,
		Method:  method,
		T0:      t0,
		TBound:  tBound,
		Status:  result.Status.String(),
		Success: result.Success,
		Message: result.Message,
		Steps:   result.StepsTaken,
		NFev:    result.NFev,
		Times:   result.Times,
		States:  make([][]float64, len(result.States)),
		Metrics: result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}
