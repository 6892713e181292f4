package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength     = 3
	MaxUsernameLength     = 30
	MinDisplayNameLength  = 2
	MaxDisplayNameLength  = 100
	MinTitleLength        = 3
	MaxTitleLength        = 200
	MaxDescriptionLength  = 5000
	MaxHeadlineLength     = 200
	MaxLocationLength     = 100
	MaxSkillNameLength    = 50
	MaxSkillsCount        = 50
	MaxYearsExperience    = 80
	MaxExternalLinkLength = 500
	MaxRadiusKm           = 20000.0 // половина окружности Земли
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("отображаемое имя обязательно")
	}

	displayName = strings.TrimSpace(displayName)

	if err := ValidateLength("отображаемое имя", displayName, MinDisplayNameLength, MaxDisplayNameLength); err != nil {
		return err
	}

	displayNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,!?()]+$`)
	if !displayNameRegex.MatchString(displayName) {
		return fmt.Errorf("отображаемое имя содержит недопустимые символы")
	}

	return nil
}

// ValidateTitle проверяет заголовок вакансии.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок вакансии обязателен")
	}

	return ValidateLength("заголовок вакансии", strings.TrimSpace(title), MinTitleLength, MaxTitleLength)
}

// ValidateDescription проверяет описание вакансии.
func ValidateDescription(description *string) error {
	if description != nil && *description != "" {
		return ValidateLength("описание вакансии", strings.TrimSpace(*description), 0, MaxDescriptionLength)
	}
	return nil
}

// ValidateHeadline проверяет заголовок профиля.
func ValidateHeadline(headline *string) error {
	if headline != nil && *headline != "" {
		return ValidateLength("заголовок профиля", strings.TrimSpace(*headline), 0, MaxHeadlineLength)
	}
	return nil
}

// ValidateLocation проверяет город или страну.
func ValidateLocation(location *string) error {
	if location != nil && *location != "" {
		return ValidateLength("местоположение", strings.TrimSpace(*location), 0, MaxLocationLength)
	}
	return nil
}

// ValidateSkillNames проверяет массив имён навыков.
func ValidateSkillNames(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return fmt.Errorf("количество навыков не может превышать %d", MaxSkillsCount)
	}

	seen := make(map[string]bool)
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return fmt.Errorf("навык не может быть пустым")
		}

		if utf8.RuneCountInString(skill) > MaxSkillNameLength {
			return fmt.Errorf("навык не может быть длиннее %d символов", MaxSkillNameLength)
		}

		skillLower := strings.ToLower(skill)
		if seen[skillLower] {
			return fmt.Errorf("навык '%s' указан дважды", skill)
		}
		seen[skillLower] = true
	}

	return nil
}

// ValidateYearsExperience проверяет стаж.
func ValidateYearsExperience(years int) error {
	if years < 0 {
		return fmt.Errorf("стаж не может быть отрицательным")
	}
	if years > MaxYearsExperience {
		return fmt.Errorf("стаж не может превышать %d лет", MaxYearsExperience)
	}
	return nil
}

// ValidateRadiusKm проверяет радиус геофильтра. Значение обязано быть
// положительным: ноль и отрицательные отклоняются, а не превращаются
// в "без ограничения".
func ValidateRadiusKm(maxKm *float64) error {
	if maxKm == nil {
		return nil
	}
	if *maxKm <= 0 {
		return fmt.Errorf("радиус должен быть положительным")
	}
	if *maxKm > MaxRadiusKm {
		return fmt.Errorf("радиус не может превышать %.0f км", MaxRadiusKm)
	}
	return nil
}

// ValidateExternalLink проверяет внешнюю ссылку (фото, CV).
func ValidateExternalLink(link *string) error {
	if link != nil && *link != "" {
		linkStr := strings.TrimSpace(*link)

		if err := ValidateLength("внешняя ссылка", linkStr, 0, MaxExternalLinkLength); err != nil {
			return err
		}

		parsedURL, err := url.Parse(linkStr)
		if err != nil {
			return fmt.Errorf("некорректный формат URL")
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("ссылка должна начинаться с http:// или https://")
		}
		if parsedURL.Host == "" {
			return fmt.Errorf("ссылка должна содержать доменное имя")
		}
	}
	return nil
}
