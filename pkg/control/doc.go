// Package control binds view inputs to formkit fields.
//
// A Control is mounted on a form with the props of one element. It finds or
// creates the field for the element's name, maps raw input events to field
// values and produces the attributes and state a renderer needs. Behaviour
// that differs per input type lives in small Strategy values:
//
//   - checkbox: stores the checked state, or the element's value when checked
//   - radio: shares one field per name; checked when the field equals the element's value
//   - file: stores the selected file list and renders no value attribute
//   - number: parses input text as a float
//   - select and text: store the text as is
//
// Usage:
//
//	email, err := control.New(ctx, form, control.Props{Name: "email", Type: "email"})
//	if err != nil {
//		return err
//	}
//	email.OnChange(control.Event{Value: r.FormValue("email")})
//	binding := email.Render()
//
// With WithTranslator, Render returns error messages in the language that
// i18n.Locale reads from the ctx given to New.
//
// When the initial value from the form schema does not match the input type,
// an initial_value_type diagnostic is reported on the form's sink.
package control
