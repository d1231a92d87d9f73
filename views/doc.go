/*
Package views provides Swiftlet's view layer: per-request template
variables and the renderer that locates a view's template file by naming
convention.

Every variable is stored twice when it is set: once exactly as given, and
once with every string inside it HTML-encoded (see Encode). Get returns
the encoded form unless asked otherwise, so a template that prints view
variables is safe by default.

	v := model.NewView("post")
	v.Set("title", views.String("A & B"))
	v.Get("title", true)  // "A &amp; B"
	v.Get("title", false) // "A & B"

A view is rendered against a module path. The template for view "post" in
module "blog" lives at

	<vendor root>/blog/views/post<extension>

and Render fails with ErrViewNotFound when no such file exists. The file
is executed by the model's Engine, which is given the view itself as a
DataProvider: templates read variables through it and may set new ones.
*/
package views
