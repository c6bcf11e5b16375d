package geometry

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

var fieldSep = regexp.MustCompile(`[\s,;]+`)

// ParseCoordinates acepta la carga masiva de vértices:
//   - JSON: [[lat, lng], ...] o [{"lat":..,"lng":..}, ...]
//   - texto: una fila "lat, lng" por línea (separa por espacio, coma, punto y coma o tab)
//
// Cada par se valida por rango de forma independiente; todos los errores se
// devuelven juntos (errors.Join), cada uno envolviendo ErrMalformedInput.
func ParseCoordinates(text string) ([]Point, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: no coordinates", ErrMalformedInput)
	}
	if strings.HasPrefix(text, "[") {
		return parseJSON(text)
	}
	return parseRows(text)
}

func parseJSON(text string) ([]Point, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrMalformedInput, err)
	}

	points := make([]Point, 0, len(items))
	var errs []error
	for i, raw := range items {
		p, err := decodeJSONPoint(raw)
		if err == nil {
			err = CheckPoint(p)
		}
		if err != nil {
			errs = append(errs, &CoordinateError{Index: i + 1, Raw: string(raw), Reason: err.Error()})
			continue
		}
		points = append(points, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return points, nil
}

func decodeJSONPoint(raw json.RawMessage) (Point, error) {
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) != 2 {
			return Point{}, fmt.Errorf("expected [lat, lng], got %d values", len(pair))
		}
		return Point{Lat: pair[0], Lng: pair[1]}, nil
	}

	var obj struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Point{}, errors.New("expected [lat, lng] pair or {lat, lng} object")
	}
	if obj.Lat == nil || obj.Lng == nil {
		return Point{}, errors.New("lat and lng are required")
	}
	return Point{Lat: *obj.Lat, Lng: *obj.Lng}, nil
}

func parseRows(text string) ([]Point, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	points := make([]Point, 0, len(lines))
	var errs []error
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p, err := parseRow(line)
		if err != nil {
			errs = append(errs, &CoordinateError{Index: i + 1, Raw: line, Reason: err.Error()})
			continue
		}
		points = append(points, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no coordinates", ErrMalformedInput)
	}
	return points, nil
}

func parseRow(line string) (Point, error) {
	fields := fieldSep.Split(strings.Trim(line, ",; \t"), -1)
	if len(fields) != 2 {
		return Point{}, fmt.Errorf("expected 2 values (lat, lng), got %d", len(fields))
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("latitude %q is not a number", fields[0])
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("longitude %q is not a number", fields[1])
	}
	p := Point{Lat: lat, Lng: lng}
	if err := CheckPoint(p); err != nil {
		return Point{}, err
	}
	return p, nil
}
