package lang

func init() {
	Register(&LanguageSpec{
		Language:          Java,
		FileExtensions:    []string{".java"},
		CommentNodeTypes:  []string{"line_comment", "block_comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes: []string{
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
		},
	})
}
