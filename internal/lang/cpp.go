package lang

func init() {
	Register(&LanguageSpec{
		Language:          CPP,
		FileExtensions:    []string{".cpp", ".h", ".hpp", ".cc", ".cxx", ".hh"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes: []string{
			"class_specifier",
			"struct_specifier",
			"enum_specifier",
		},
	})
}
