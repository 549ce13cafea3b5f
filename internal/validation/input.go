package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength           = 2
	MaxNameLength           = 100
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MinJobDescriptionLength = 10
	MaxJobDescriptionLength = 2000
	MaxCompanyLength        = 200
	MaxCoverLetterLength    = 5000
	MaxFeedbackLength       = 2000
	MaxBioLength            = 1000
	MaxExperienceLength     = 2000
	MaxLocationLength       = 100
	MaxSkillLength          = 50
	MaxSkillsCount          = 50
	MaxRequirementLength    = 300
	MaxRequirementsCount    = 50
	MaxWebsiteLength        = 500
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	nameRegex        = regexp.MustCompile(`^[\p{L}0-9\s\-'.]+$`)
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

// ValidateOptionalLength проверяет длину необязательного поля.
func ValidateOptionalLength(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, strings.TrimSpace(*value), 0, max)
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	localPart, domainPart, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domainPart, "@") {
		return fmt.Errorf("некорректный формат email")
	}

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
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

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	if err := ValidateLength("имя", name, MinNameLength, MaxNameLength); err != nil {
		return err
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("имя содержит недопустимые символы")
	}
	return nil
}

// ValidateJobTitle проверяет название вакансии.
func ValidateJobTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("название вакансии обязательно")
	}
	return ValidateLength("название вакансии", title, MinJobTitleLength, MaxJobTitleLength)
}

// ValidateJobDescription проверяет описание вакансии.
func ValidateJobDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("описание вакансии обязательно")
	}
	return ValidateLength("описание вакансии", description, MinJobDescriptionLength, MaxJobDescriptionLength)
}

// ValidateList проверяет список строк (навыки, требования): пустые и повторяющиеся элементы запрещены.
func ValidateList(fieldName string, items []string, maxCount, maxItemLength int) error {
	if len(items) > maxCount {
		return fmt.Errorf("%s: не более %d элементов", fieldName, maxCount)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return fmt.Errorf("%s: элемент не может быть пустым", fieldName)
		}
		if utf8.RuneCountInString(item) > maxItemLength {
			return fmt.Errorf("%s: элемент не может быть длиннее %d символов", fieldName, maxItemLength)
		}

		key := strings.ToLower(item)
		if seen[key] {
			return fmt.Errorf("%s: '%s' указан дважды", fieldName, item)
		}
		seen[key] = true
	}

	return nil
}

// ValidateWebsite проверяет ссылку на сайт.
func ValidateWebsite(link *string) error {
	if link == nil || strings.TrimSpace(*link) == "" {
		return nil
	}
	linkStr := strings.TrimSpace(*link)

	if err := ValidateLength("сайт", linkStr, 0, MaxWebsiteLength); err != nil {
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
	return nil
}
