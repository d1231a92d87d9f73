/*
Package templatepack provides the helper functions shared by every view
template. A Pack implements views.FunctionProvider; bind it to a model
with views.GlobalFunctionsOption or to a pongo2 engine with
pongo.WithFunctions.

Predefined functions are as follows.

	equal A B
		Reports whether two strings are equal.
	now
		Returns the current time as a time.Time.
	markdown S
		Renders S as Markdown and returns sanitized HTML.
	sanitize S
		Strips S of everything but user-generated-content safe HTML.
	decode S
		Decodes HTML entities in S, typically an encoded view variable.
		The result is escaped again by html/template for its context.
*/
package templatepack
