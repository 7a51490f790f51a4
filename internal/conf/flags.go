package conf

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// viperKeyAnnotation maps a flag to the configuration key it overrides.
const viperKeyAnnotation = "datagen_viper_key"

// BindFlag marks flag name on fs as an override for the viper key. The flag
// must already be defined.
func BindFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, viperKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("binding unknown flag %q: %v", name, err))
	}
}

// BindAnnotatedFlags binds every annotated flag in fs to its viper key. Call
// it for the executing command only, before Load, since several commands may
// override the same key.
func BindAnnotatedFlags(fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[viperKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		if err := viper.BindPFlag(keys[0], f); err != nil {
			bindErr = fmt.Errorf("error binding flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}
