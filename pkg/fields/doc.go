// Package fields renders the form controls (text, select, date, file,
// checkbox and radio) and binds each of them to a state.Controller.
//
// A renderer is constructed from the common field props plus its typed
// props, registered with the controller that owns the form state, and then
// rendered any number of times against a snapshot of that state:
//
//	text := fields.NewText(fields.Common{Name: "email", Label: "Email", Required: true},
//		model.TextProps{InputType: "email"})
//	_ = text.Register(controller)
//	_ = text.Render(w, fields.View{Snapshot: controller.Snapshot(), Styles: fields.DefaultStyles()})
//
// Renderers own the user-event operations of their control (selecting
// files, searching options, toggling a checkbox); every value change is
// written through the controller.
package fields
