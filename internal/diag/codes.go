package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Синтаксические (проверяются на уровне объявления)
	SynInfo               Code = 2000
	SynModifierNotAllowed Code = 2015
	SynExpectType         Code = 2202
	SynVariadicMustBeLast Code = 2207

	// Семантические
	SemaInfo                  Code = 3000
	SemaError                 Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaUnresolvedSymbol      Code = 3005
	SemaTypeParamShadow       Code = 3112 // Type parameter shadows an enclosing type parameter
	SemaDuplicateTypeParam    Code = 3140 // Type parameter declared twice in one list
	SemaTypeParamSameAsParent Code = 3141 // Type parameter named after its local function
	SemaLocalFnExtension      Code = 3142 // Local function declared with a 'this' receiver
	SemaLocalFnInferredReturn Code = 3143 // 'var' used as local function return type
	SemaDuplicateParam        Code = 3144 // Parameter name repeated
	SemaThisParamNotFirst     Code = 3145 // 'this' modifier on a non-first parameter

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Ошибки проекта / фикстур
	ProjInfo           Code = 5000
	ProjInvalidFixture Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Future/Unsupported Features
	FutGenericLocalFnNotSupported Code = 7007
)

var ( // todo расширить описания и использовать как notes
	codeDescription = map[Code]string{
		UnknownCode:                   "Unknown error",
		SynInfo:                       "Syntax information",
		SynModifierNotAllowed:         "Modifier not allowed here",
		SynExpectType:                 "Expect type",
		SynVariadicMustBeLast:         "Variadic parameter must be last",
		SemaInfo:                      "Semantic information",
		SemaError:                     "Semantic error",
		SemaDuplicateSymbol:           "Duplicate symbol",
		SemaUnresolvedSymbol:          "Unresolved symbol",
		SemaTypeParamShadow:           "type parameter shadows outer type parameter",
		SemaDuplicateTypeParam:        "duplicate type parameter",
		SemaTypeParamSameAsParent:     "type parameter has the same name as the containing local function",
		SemaLocalFnExtension:          "local functions cannot be extension methods",
		SemaLocalFnInferredReturn:     "'var' is not a valid return type for a local function",
		SemaDuplicateParam:            "duplicate parameter name",
		SemaThisParamNotFirst:         "'this' modifier is only valid on the first parameter",
		IOLoadFileError:               "I/O load file error",
		ProjInfo:                      "Project information",
		ProjInvalidFixture:            "Invalid declaration fixture",
		ObsInfo:                       "Observability information",
		ObsTimings:                    "Pipeline timings",
		FutGenericLocalFnNotSupported: "generic local functions are not supported yet",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("FUT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
