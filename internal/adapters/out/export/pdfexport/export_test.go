package pdfexport

var (
	Heading       = heading
	CustomerLabel = customerLabel
)
