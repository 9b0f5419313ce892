package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Undo   func(TargetArgs) (Result, error)
	Toggle func(TargetArgs) (Result, error)
	Edit   func(TargetArgs) (Result, error)
	Save   func(TargetArgs) (Result, error)
	Cancel func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Sort   func(SortArgs) (Result, error)
	Filter func(FilterArgs) (Result, error)
	Logout func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone, TypeUndo, TypeToggle, TypeEdit, TypeSave, TypeCancel, TypeDelete:
		h := handlers.target(cmd.Type)
		if h == nil {
			return Result{}, missing(cmd.Type)
		}
		return h(*cmd.Target)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sort(*cmd.Sort)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Filter(*cmd.Filter)
	case TypeLogout:
		if handlers.Logout == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Logout()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func (h Handlers) target(t Type) func(TargetArgs) (Result, error) {
	switch t {
	case TypeDone:
		return h.Done
	case TypeUndo:
		return h.Undo
	case TypeToggle:
		return h.Toggle
	case TypeEdit:
		return h.Edit
	case TypeSave:
		return h.Save
	case TypeCancel:
		return h.Cancel
	case TypeDelete:
		return h.Delete
	default:
		return nil
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
