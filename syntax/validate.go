package syntax

import "github.com/xqgo/xquery/ast"

// SyntaxValidator validates an AST against a SyntaxConfig.
type SyntaxValidator struct {
	config SyntaxConfig
}

// NewSyntaxValidator creates a validator for the given configuration.
func NewSyntaxValidator(config SyntaxConfig) *SyntaxValidator {
	return &SyntaxValidator{config: config}
}

// Validate checks the module against the syntax configuration. Imported
// modules are not inspected.
func (v *SyntaxValidator) Validate(module *ast.Module) []ValidationError {
	var errors []ValidationError

	if v.config.DisallowFullText && module.Prolog != nil && module.Prolog.FTOptions != nil {
		errors = append(errors, ValidationError{
			Message:  "full-text search is not allowed",
			Node:     module,
			Position: module.Pos(),
		})
	}
	for node := range ast.Preorder(module) {
		if err := v.checkNode(node); err != nil {
			errors = append(errors, *err)
		}
	}

	return errors
}

func (v *SyntaxValidator) checkNode(node ast.Node) *ValidationError {
	var msg string
	switch n := node.(type) {
	case *ast.ModuleImport:
		if v.config.DisallowImports {
			msg = "module imports are not allowed"
		}

	case *ast.FunctionDecl:
		if v.config.DisallowFunctionDecl {
			msg = "function declarations are not allowed"
		}

	case *ast.VarDecl:
		if v.config.DisallowVariableDecl {
			msg = "variable declarations are not allowed"
		}

	case *ast.FLWOR:
		if v.config.DisallowFLWOR {
			msg = "FLWOR expressions are not allowed"
		}

	case *ast.ElementConstructor, *ast.AttributeConstructor, *ast.TextConstructor,
		*ast.CommentConstructor, *ast.PIConstructor, *ast.DocumentConstructor:
		if v.config.DisallowConstructors {
			msg = "node constructors are not allowed"
		}

	case *ast.TryCatch:
		if v.config.DisallowTryCatch {
			msg = "try/catch is not allowed"
		}

	case *ast.TypeSwitch:
		if v.config.DisallowTypeSwitch {
			msg = "typeswitch expressions are not allowed"
		}

	case *ast.FTContains:
		if v.config.DisallowFullText {
			msg = "full-text search is not allowed"
		}

	case *ast.Extension, *ast.FTExtension:
		if v.config.DisallowExtensions {
			msg = "extension expressions are not allowed"
		}

	case *ast.OptionDecl:
		if v.config.DisallowExtensions {
			msg = "option declaration " + n.Name.String() + " is not allowed"
		}
	}

	if msg == "" {
		return nil
	}
	return &ValidationError{
		Message:  msg,
		Node:     node,
		Position: node.Pos(),
	}
}
