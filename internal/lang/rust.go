package lang

func init() {
	Register(&LanguageSpec{
		Language:          Rust,
		FileExtensions:    []string{".rs"},
		CommentNodeTypes:  []string{"line_comment", "block_comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"function_item"},
		ClassNodeTypes: []string{
			"struct_item",
			"enum_item",
			"trait_item",
			"type_item",
		},
	})
}
