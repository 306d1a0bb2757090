package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

func WriteJSON(runID, outDir string, r *compliance.Report) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return path, nil
}
