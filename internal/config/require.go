package config

import (
	"errors"
	"fmt"
)

// Validate checks the settings `serve` cannot run without. Backends that are
// switched off (no Kafka brokers, no SendGrid key) are not required.
func (c Config) Validate() error {
	errs := []error{c.ValidateStore()}

	switch c.ProductSource {
	case ProductsFromStore:
	case ProductsFromES:
		errs = append(errs, nonEmpty(c.ESURL, "ES_URL"))
	default:
		errs = append(errs, fmt.Errorf("unsupported PRODUCT_SOURCE %q", c.ProductSource))
	}

	switch c.SessionDriver {
	case SessionsRedis:
		errs = append(errs, nonEmpty(c.RedisAddr, "REDIS_ADDR"))
	case SessionsMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_DRIVER %q", c.SessionDriver))
	}

	errs = append(errs,
		nonEmptyBytes(c.SessionSecret, "SESSION_SECRET"),
		nonEmpty(c.RazorpayKeyID, "RAZORPAY_KEY_ID"),
		nonEmpty(c.RazorpayKeySecret, "RAZORPAY_KEY_SECRET"),
	)

	if c.SendGridAPIKey != "" {
		errs = append(errs,
			nonEmpty(c.ContactMailFrom, "CONTACT_MAIL_FROM"),
			nonEmpty(c.ContactMailTo, "CONTACT_MAIL_TO"),
		)
	}

	return errors.Join(errs...)
}

// ValidateStore checks only what opening the store needs; `migrate` runs it.
func (c Config) ValidateStore() error {
	switch c.StoreDriver {
	case StoreGorm:
		switch c.DBDriver {
		case "postgres", "pg", "postgresql", "mysql", "mariadb", "sqlite", "sqlite3":
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
		}
		return nonEmpty(c.DatabaseURL, "DATABASE_URL")
	case StoreMongo:
		return nonEmpty(c.MongoURI, "MONGO_URI")
	}
	return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
}

func nonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func nonEmptyBytes(value []byte, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}
