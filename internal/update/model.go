package update

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/session"
	"github.com/sandeepkv93/todolist/internal/todo"
)

type Screen string

const (
	ScreenLogin Screen = "Login"
	ScreenTasks Screen = "Tasks"
)

type Mode string

const (
	ModeBrowse        Mode = "browse"
	ModeAdd           Mode = "add"
	ModeEdit          Mode = "edit"
	ModeConfirmDelete Mode = "confirm_delete"
)

type StatusBar struct {
	Text      string
	IsError   bool
	IsWarning bool
}

type GlobalKeyMap struct {
	Help   string
	Quit   string
	Logout string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Authenticator is the credential check the login screen drives.
type Authenticator interface {
	Login(username, password string) (auth.Result, error)
	Resume(token string) (auth.Result, error)
}

// TokenStore keeps the session token between runs.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// DefaultRefreshInterval is how often a logged-in model re-reads the store to pick up changes made by
// other sessions.
const DefaultRefreshInterval = 15 * time.Second

type Options struct {
	Context         context.Context
	Service         *todo.Service
	Authenticator   Authenticator
	Tokens          TokenStore
	Logger          *log.Logger
	Sort            model.SortKey
	RefreshInterval time.Duration
}

type Model struct {
	Screen         Screen
	Mode           Mode
	Auth           session.AuthState
	Tasks          []model.Task
	Cursor         int
	SelectedTaskID int64
	Sort           model.SortKey
	Filter         *model.Status
	Edits          *session.EditSession
	EditingID      int64
	DeleteID       int64
	FormError      string
	LoggingIn      bool
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx     context.Context
	service *todo.Service
	authn   Authenticator
	tokens  TokenStore
	logger  *log.Logger

	refreshEvery time.Duration
	refreshGen   int

	usernameInput textinput.Model
	passwordInput textinput.Model
	textInput     textinput.Model
	dueInput      textinput.Model
	commandInput  textinput.Model
	helpModel     help.Model
	loginField    int
	formField     int
}

// LoginResultMsg carries the outcome of a login attempt or a resumed session.
type LoginResultMsg struct {
	Result  auth.Result
	Err     error
	Resumed bool
}

// ReloadTasksMsg re-reads the task list. Messages from the refresh timer carry the login they were
// scheduled for and are dropped once that login has ended.
type ReloadTasksMsg struct {
	gen int
}

func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sortKey := opts.Sort
	if !sortKey.IsKnown() {
		sortKey = model.SortByDue
	}
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	m := Model{
		Screen: ScreenLogin,
		Mode:   ModeBrowse,
		Auth:   session.AuthState{Status: session.AuthNoAttempt},
		Sort:   sortKey,
		Edits:  session.NewEditSession(),
		Keys: GlobalKeyMap{
			Help:   "?",
			Quit:   "q",
			Logout: "L",
		},
		ctx:     ctx,
		service: opts.Service,
		authn:   opts.Authenticator,
		tokens:  opts.Tokens,
		logger:  logger,

		refreshEvery: refresh,
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.usernameInput = textinput.New()
	m.usernameInput.Prompt = "username> "
	m.usernameInput.CharLimit = 64
	m.usernameInput.Width = 40
	m.usernameInput.Focus()

	m.passwordInput = textinput.New()
	m.passwordInput.Prompt = "password> "
	m.passwordInput.CharLimit = 128
	m.passwordInput.Width = 40
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.passwordInput.EchoCharacter = '*'

	m.textInput = textinput.New()
	m.textInput.Prompt = "task> "
	m.textInput.CharLimit = 256
	m.textInput.Width = 44

	m.dueInput = textinput.New()
	m.dueInput.Prompt = "due> "
	m.dueInput.CharLimit = 32
	m.dueInput.Width = 20

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
}
