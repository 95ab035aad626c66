// Package shopctl implements the operator command line for the storefront:
// tasks that must not be reachable over the public API, such as creating
// administrator accounts.
package shopctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/filex"
	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/netx"
	"github.com/dmitrijs2005/storefront/internal/server"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

const usage = `usage: shopctl <command> [flags]

commands:
  create-admin -u <username> -e <email> [-c <config>] [-d <dsn>] [-k <bcrypt cost>]
      creates an administrator account; the password is read from the terminal
  upload-image -p <product id> -f <file> [-c <config>] [-d <dsn>]
      stores a product image in the bucket and points the product at it
`

// AdminCreator creates administrator accounts.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error)
}

// ImageUploader reserves presigned upload targets for product images.
type ImageUploader interface {
	ImageUpload(ctx context.Context, productID string) (*models.ImageUpload, error)
}

func openServices(ctx context.Context, cfg *config.Config) (*server.Services, io.Closer, error) {
	logger := logging.NewJSONLogger(os.Stderr, slog.LevelInfo)

	db, rm, err := server.OpenDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := server.NewServices(cfg, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return svc, db, nil
}

// openAdminCreator and openImageUploader connect to the database described
// by cfg. The returned closer releases the connection.
var openAdminCreator = func(ctx context.Context, cfg *config.Config) (AdminCreator, io.Closer, error) {
	svc, closer, err := openServices(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc.Users, closer, nil
}

var openImageUploader = func(ctx context.Context, cfg *config.Config) (ImageUploader, io.Closer, error) {
	svc, closer, err := openServices(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc.Products, closer, nil
}

// uploadObject is a test seam for netx.UploadToPresignedURL.
var uploadObject = func(ctx context.Context, url, contentType string, body []byte) error {
	return netx.UploadToPresignedURL(ctx, nil, url, contentType, body)
}

// App runs one shopctl command.
type App struct {
	out io.Writer
	cfg *config.Config
}

func NewApp(out io.Writer) *App {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{out: out, cfg: cfg}
}

// Run executes the command named by args[0] and returns the process exit
// code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "create-admin":
		err = a.createAdmin(ctx, args[1:])
	case "upload-image":
		err = a.uploadImage(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return 1
	}
	return 0
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	var username, email string

	fs := a.flagSet("create-admin")
	fs.StringVar(&username, "u", "", "username")
	fs.StringVar(&email, "e", "", "email")
	fs.IntVar(&a.cfg.PasswordCost, "k", a.cfg.PasswordCost, "bcrypt cost")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	in := &validation.UserPayload{Username: username, Email: email, Password: string(password)}
	if err := validation.New().Struct(in); err != nil {
		return err
	}

	creator, closer, err := openAdminCreator(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	u, err := creator.CreateAdmin(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("user %s already exists", email)
		}
		return err
	}

	fmt.Fprintf(a.out, "Administrator %s created (id %s)\n", u.Username, u.ID)
	return nil
}

func (a *App) uploadImage(ctx context.Context, args []string) error {
	var productID, path string

	fs := a.flagSet("upload-image")
	fs.StringVar(&productID, "p", "", "product id")
	fs.StringVar(&path, "f", "", "image file")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if productID == "" || path == "" {
		return errors.New("both -p and -f are required")
	}

	data, contentType, err := filex.ReadImage(path)
	if err != nil {
		return err
	}

	uploader, closer, err := openImageUploader(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	up, err := uploader.ImageUpload(ctx, productID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("product %s not found", productID)
		}
		return err
	}

	if err := uploadObject(ctx, up.UploadURL, contentType, data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Image for product %s stored as %s\n", productID, up.Key)
	return nil
}

// flagSet returns a flag set with the options every command shares.
func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.String("c", "", "path to JSON config file")
	fs.StringVar(&a.cfg.DatabaseDSN, "d", a.cfg.DatabaseDSN, "database DSN")
	return fs
}

// parse applies args to fs. A -c file is loaded first so that explicit
// flags override it.
func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if path := flagx.ConfigFile(args); path != "" {
		if err := config.LoadJSON(a.cfg, path); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	return fs.Parse(args)
}
