package conversation

// User-facing texts.
const (
	msgWelcome  = "Добро пожаловать в To-Do бота! Выберите действие:"
	msgMainMenu = "Главное меню:"

	msgAskLoginUsername = "Введите ваш логин:"
	msgAskLoginPassword = "Введите ваш пароль:"
	msgLoggedIn         = "Вы успешно вошли!"
	msgBadCredentials   = "Неверный логин или пароль"
	msgLoginFailed      = "Произошла ошибка при входе"

	msgAskRegisterUsername = "Придумайте логин:"
	msgAskRegisterPassword = "Придумайте пароль:"
	msgRegistered          = "Регистрация успешна!"
	msgUsernameTaken       = "Такой логин уже существует"
	msgRegisterFailed      = "Ошибка при регистрации"
	msgBadUsername         = "Логин не должен быть пустым, длиннее 64 символов или содержать управляющие символы"
	msgBadPassword         = "Пароль не должен быть пустым"

	msgNotAuthenticated = "Пожалуйста, войдите в систему"
	msgLoggedOut        = "Вы вышли из системы"

	msgNoNotes      = "У вас пока нет заметок"
	msgNotesHeader  = "📋 Ваши заметки:\n\n"
	msgListFailed   = "Ошибка при получении заметок"
	msgAskNoteText  = "Введите текст заметки:"
	msgNoteAdded    = "✅ Заметка успешно добавлена!"
	msgAddFailed    = "❌ Ошибка при добавлении заметки"
	msgBadNoteText  = "❌ Текст заметки не должен быть пустым или длиннее 4096 байт"
	msgAskEditID    = "Введите номер заметки для редактирования:"
	msgAskEditText  = "Введите новый текст заметки:"
	msgNoteUpdated  = "✅ Заметка обновлена!"
	msgEditFailed   = "❌ Ошибка при редактировании заметки"
	msgAskDeleteID  = "Введите номер заметки для удаления:"
	msgNoteDeleted  = "✅ Заметка удалена!"
	msgDeleteFailed = "❌ Ошибка при удалении заметки"
	msgNoteNotFound = "❌ Заметка не найдена"
	msgBadNoteID    = "❌ Номер заметки должен быть положительным числом"
)
