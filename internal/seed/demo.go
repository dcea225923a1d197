package seed

import (
	"errors"

	"vendora/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo account credentials for local development. The password is only ever
// written for a freshly created account.
const (
	DemoOwnerEmail = "demo@vendora.local"
	DemoStoreName  = "Vendora Demo Store"
	demoPassword   = "Demo-Passw0rd-Local!"
)

// DemoStore ensures a known demo owner and store exist so a fresh development
// database has something to log into. Safe to run on every boot.
func DemoStore(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var owner models.User
		err := tx.Where("email = ?", DemoOwnerEmail).First(&owner).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hashed, herr := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
			if herr != nil {
				return herr
			}
			owner = models.User{
				Email:       DemoOwnerEmail,
				DisplayName: "Demo Merchant",
				Password:    string(hashed),
			}
			if cerr := tx.Create(&owner).Error; cerr != nil {
				return cerr
			}
		case err != nil:
			return err
		}

		var store models.Store
		err = tx.Where("owner_id = ? AND name = ?", owner.ID, DemoStoreName).First(&store).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			store = models.Store{
				Name:         DemoStoreName,
				Description:  "A sample storefront preloaded for local development.",
				OwnerID:      owner.ID,
				ContactEmail: DemoOwnerEmail,
				Currency:     "USD",
				Status:       models.StoreStatusActive,
			}
			if cerr := tx.Create(&store).Error; cerr != nil {
				return cerr
			}
		case err != nil:
			return err
		default:
			// Already provisioned; nothing to refresh.
			return nil
		}

		factory := NewFactory(tx)
		if err := populateStore(factory, &store, 8); err != nil {
			return err
		}
		return nil
	})
}
