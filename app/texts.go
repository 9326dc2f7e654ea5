package app

// User-facing message texts.
const (
	textWelcome = "👋 Добро пожаловать!\n\n" +
		"Я помогу вам зарегистрироваться в программе лояльности.\n" +
		"Нажмите <b>СТАРТ</b>, чтобы начать."

	textUseButtons = "Пожалуйста, воспользуйтесь кнопкой ниже, чтобы начать регистрацию."

	textChooseCity = "🏙 Выберите ваш город:"

	textNoCities = "К сожалению, регистрация сейчас недоступна: нет открытых городов.\n" +
		"Попробуйте позже."

	textCityUnavailable = "Этот город больше недоступен. Выберите другой:"

	textAskName = "✅ Город: <b>%s</b>\n📍 Адрес: %s\n\nКак вас зовут?"

	textNameTooShort = "Имя слишком короткое. Введите, пожалуйста, имя (минимум 2 символа)."

	textAskPhone = "Отлично, %s!\n\n" +
		"📱 Теперь отправьте ваш номер телефона или поделитесь контактом кнопкой ниже."

	textBadPhone = "Не получилось распознать номер. Отправьте его в формате <code>+79991234567</code> " +
		"или поделитесь контактом кнопкой ниже."

	textProcessing = "⏳ Спасибо! Сохраняем вашу заявку..."

	textCongrats = "🎉 <b>Поздравляем, %s!</b>\n\n" +
		"Вы зарегистрированы в программе лояльности.\n" +
		"📍 Ваш магазин: %s"

	textShareContact = "📱 Поделиться номером"
	textStartButton  = "СТАРТ"

	textAdminDenied = "У вас нет прав администратора."
)
