// Package spreadsheet lee el archivo de carga masiva (xlsx, csv o json) y lo convierte en
// filas dto.ImportRow indexadas por el encabezado original.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
)

// Format formato del archivo de entrada.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromPath deduce el formato por extensión.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("formato no soportado: %q", filepath.Ext(path))
	}
}

// ReadFile abre path y lo lee según su extensión.
func ReadFile(path string) ([]dto.ImportRow, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read lee r en el formato indicado. Las filas totalmente vacías se descartan.
func Read(r io.Reader, format Format) ([]dto.ImportRow, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readXLSX(r)
	case FormatCSV:
		records, err = readCSV(r)
	case FormatJSON:
		return readJSON(r)
	default:
		return nil, fmt.Errorf("formato no soportado: %q", format)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

// readXLSX primera hoja del libro. RawCellValue deja las fechas como número de serie
// de Excel; certificate.ParseDate las interpreta.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx sin hojas")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV acepta UTF-8 (con o sin BOM) y, si el contenido no es UTF-8 válido, ISO-8859-1
// (exportaciones de Excel en Windows). El separador es ',' o ';' según el encabezado.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		if data, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), data); err != nil {
			return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear csv: %w", err)
	}
	return records, nil
}

func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

// readJSON arreglo de objetos; los valores no textuales se convierten a texto.
func readJSON(r io.Reader) ([]dto.ImportRow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("parsear json: %w", err)
	}
	rows := make([]dto.ImportRow, 0, len(objects))
	for _, obj := range objects {
		row := make(dto.ImportRow, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case nil:
				row[k] = ""
			case string:
				row[k] = val
			default:
				row[k] = fmt.Sprint(val)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// toRows usa la primera fila como encabezado.
func toRows(records [][]string) []dto.ImportRow {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []dto.ImportRow
	for _, rec := range records[1:] {
		row := make(dto.ImportRow, len(header))
		empty := true
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v != "" {
				empty = false
			}
			row[h] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}
