package collection

import (
	"fmt"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// Infer derives a schema from one sample value. See record.FromValue for the
// accepted shapes and how their key order is determined.
func Infer(sample any, overrides map[string]field.Options) (*Schema, error) {
	rec, err := record.FromValue(sample)
	if err != nil {
		return nil, domain.NewSchemaError("unable to derive schema", err.Error(), domain.ErrNotFlat)
	}
	return InferRecord(rec, overrides)
}

// InferRecord derives a schema from an ordered record. Fields keep the
// record's key order, so inferring twice from the same sample is stable.
func InferRecord(rec record.Record, overrides map[string]field.Options) (*Schema, error) {
	fields := make([]field.Field, 0, rec.Len())
	for _, e := range rec.Entries() {
		f, err := inferField(e.Key, e.Value, overrides)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	s, err := New(fields)
	if err != nil {
		return nil, domain.NewSchemaError("unable to derive schema", err.Error(), nil)
	}
	return s, nil
}

func inferField(name string, v record.Value, overrides map[string]field.Options) (field.Field, error) {
	var (
		f   field.Field
		err error
	)
	switch v.Kind() {
	case record.KindString:
		f, err = field.NewText(name, field.ResolveText(name, overrides), false)
	case record.KindBool:
		f, err = field.NewText(name, field.ResolveText(name, overrides), true)
	case record.KindUint:
		f, err = field.NewNumeric(name, field.UnsignedInt, field.ResolveNumeric(name, overrides))
	case record.KindInt:
		f, err = field.NewNumeric(name, field.SignedInt, field.ResolveNumeric(name, overrides))
	case record.KindFloat:
		f, err = field.NewNumeric(name, field.Float, field.ResolveNumeric(name, overrides))
	case record.KindBytes:
		f, err = field.NewBytes(name)
	case record.KindNull, record.KindMap, record.KindSeq, record.KindOptional, record.KindOther:
		return field.Field{}, domain.NewSchemaError(
			"unable to derive schema",
			fmt.Sprintf("field %q has unsupported type %s", name, v.Kind()),
			domain.ErrUnsupportedType)
	default:
		return field.Field{}, domain.NewSchemaError(
			"unable to derive schema",
			fmt.Sprintf("field %q has unknown kind %d", name, v.Kind()),
			domain.ErrUnsupportedType)
	}
	if err != nil {
		return field.Field{}, domain.NewSchemaError("unable to derive schema", err.Error(), nil)
	}
	return f, nil
}
