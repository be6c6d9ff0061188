package conversation

// Menu labels. Incoming text is matched against them verbatim, so a
// transport must send back exactly what it rendered.
const (
	LabelLogin    = "Войти"
	LabelRegister = "Зарегистрироваться"

	LabelListNotes  = "📝 Мои заметки"
	LabelAddNote    = "➕ Добавить заметку"
	LabelEditNote   = "🖊 Редактировать заметку"
	LabelDeleteNote = "➖ Удалить заметку"
	LabelLogout     = "🔐 Выйти"

	CommandStart = "/start"
)

// Menu is an ordered set of button rows.
type Menu [][]string

// Labels flattens m row by row.
func (m Menu) Labels() []string {
	var out []string
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

// EntryMenu is offered to chats without a session.
func EntryMenu() Menu {
	return Menu{{LabelLogin, LabelRegister}}
}

// MainMenu is offered to logged-in chats.
func MainMenu() Menu {
	return Menu{
		{LabelListNotes},
		{LabelAddNote, LabelEditNote, LabelDeleteNote},
		{LabelLogout},
	}
}

func menuFor(authenticated bool) Menu {
	if authenticated {
		return MainMenu()
	}
	return EntryMenu()
}
