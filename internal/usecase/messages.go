package usecase

import "github.com/plexsearch/chat-client/pkg/local"

// User-visible notification texts.
var (
	MsgConnectTimeout = local.NewSet(
		"Failed to connect to the server. Please try again later.",
		local.NewTrans(local.Rus, "Не удалось подключиться к серверу. Попробуйте позже."),
	)
	MsgConnectionError = local.NewSet(
		"Connection error.",
		local.NewTrans(local.Rus, "Ошибка соединения."),
	)
	MsgConnectionLost = local.NewSet(
		"Connection to the server was lost.",
		local.NewTrans(local.Rus, "Соединение с сервером потеряно."),
	)
	MsgNoChatModels = local.NewSet(
		"No chat models available",
		local.NewTrans(local.Rus, "Нет доступных чат-моделей"),
	)
	MsgNoEmbeddingModels = local.NewSet(
		"No embedding models available",
		local.NewTrans(local.Rus, "Нет доступных embedding-моделей"),
	)
	MsgCustomProviderUnconfigured = local.NewSet(
		"Seems like you are using the custom OpenAI provider, please open the settings and configure the API key and base URL",
		local.NewTrans(
			local.Rus,
			"Похоже, вы используете custom OpenAI провайдер. Откройте настройки и укажите API-ключ и базовый URL",
		),
	)
	MsgNotConnected = local.NewSet(
		"Not connected. Please try again later.",
		local.NewTrans(local.Rus, "Нет соединения. Попробуйте позже."),
	)
	MsgSendFailed = local.NewSet(
		"Failed to send message. Please try again later.",
		local.NewTrans(local.Rus, "Не удалось отправить сообщение. Попробуйте позже."),
	)
	MsgAnswerFailed = local.NewSet(
		"Failed to fetch the answer. Please try again later.",
		local.NewTrans(local.Rus, "Не удалось получить ответ. Попробуйте позже."),
	)
	MsgSuggestFailed = local.NewSet(
		"Failed to fetch suggestions.",
		local.NewTrans(local.Rus, "Не удалось получить подсказки."),
	)
	MsgServerReported = local.NewSet(
		"Server reported: %s",
		local.NewTrans(local.Rus, "Сервер сообщил: %s"),
	)
)
