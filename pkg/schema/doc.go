// Package schema provides composable validation rules and a declarative
// Schema that validates a complete form value map. Format checks (email,
// url, numeric bounds, equality) are delegated to go-playground/validator;
// presence, date, and file checks are implemented on top of the same Rule
// type so they compose freely.
//
// Format rules skip empty values so optional fields can be left blank;
// combine them with Required when a value must be present:
//
//	s := schema.Object(schema.Fields{
//		"email":    {schema.Required(), schema.Email()},
//		"password": {schema.Required(), schema.Password(8)},
//		"confirm":  {schema.EqualsField("password", "Passwords don't match")},
//	})
//	errs := s.Validate(values)
package schema
