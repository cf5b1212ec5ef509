package graph

import "encoding/json"

func marshalLabel(l Label) ([]byte, error) {
	switch len(l.Lines) {
	case 0:
		return json.Marshal("")
	case 1:
		return json.Marshal(l.Lines[0])
	default:
		return json.Marshal(l.Lines)
	}
}

func unmarshalLabel(data []byte, l *Label) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		l.Lines = []string{single}
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	l.Lines = lines
	return nil
}

func marshalLabelYAML(l Label) (interface{}, error) {
	switch len(l.Lines) {
	case 0:
		return "", nil
	case 1:
		return l.Lines[0], nil
	default:
		return l.Lines, nil
	}
}

func unmarshalLabelYAML(unmarshal func(interface{}) error, l *Label) error {
	var single string
	if err := unmarshal(&single); err == nil {
		l.Lines = []string{single}
		return nil
	}
	var lines []string
	if err := unmarshal(&lines); err != nil {
		return err
	}
	l.Lines = lines
	return nil
}
