// Package jsonsurf stores flat Go records in on-disk full-text indexes and
// reads them back by free text or by boolean equality conditions.
//
// A schema is inferred from one sample record per collection:
//
//	b := jsonsurf.NewBuilder()
//	if err := jsonsurf.RegisterType[Student](b, "students", nil); err != nil {
//		return err
//	}
//	s, err := b.Open(ctx, jsonsurf.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	students := jsonsurf.NewIndex[Student](s, "students")
//	_ = students.Insert(ctx, Student{Name: "Ada", Age: 36})
//	found, err := students.Select(ctx, jsonsurf.Query{jsonsurf.AllOf(jsonsurf.Cond("age", "36"))})
//
// Every collection lives in its own directory under the home directory
// (default "indexes"). A reopened collection keeps the schema it was
// created with.
package jsonsurf
