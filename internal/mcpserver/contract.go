package mcpserver

// RecordFormatContract describes the reaction record block that fdsreac
// writes and the rules it uses to read one back from a case file.
const RecordFormatContract = `# fdsreac Reaction Record Format

fdsreac describes a fuel's combustion with a block of FDS namelist records.
Every record starts with ` + "`&NAME`" + ` and ends at the first ` + "`/`" + `.

## Block layout

` + "```" + `
&SPEC ID='OXYGEN' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='NITROGEN' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='CARBON DIOXIDE' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='CARBON MONOXIDE' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='HYDROGEN CHLORIDE' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='WATER VAPOR' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='SOOT' LUMPED_COMPONENT_ONLY=.TRUE./
&SPEC ID='<fuel>' MW=<molar mass>/
&SPEC ID='AIR' BACKGROUND=.TRUE. SPEC_ID(1:2)='OXYGEN','NITROGEN' VOLUME_FRACTION(1:2)=1,3.7619/
&SPEC ID='PRODUCTS' SPEC_ID(1:n)=<ids> VOLUME_FRACTION(1:n)=<coefficients>/
&REAC FUEL='<fuel>' HEAT_OF_COMBUSTION=<kJ/kg> SPEC_ID_NU(1:3)='<fuel>','AIR','PRODUCTS' NU(1:3)=-1,<air>,1 REAC_ATOM_ERROR=1E5 REAC_MASS_ERROR=1E4 CHECK_ATOM_BALANCE=.FALSE./
` + "```" + `

## Inputs

| Field | Unit | Rule |
|---|---|---|
| heat_release | kJ/kg | finite, >= 0 |
| soot_yield | kg/kg | finite, >= 0 |
| o2_consumption | kg/kg | finite, >= 0 |
| co2_yield | kg/kg | finite, >= 0 |
| co_yield | kg/kg | finite, >= 0 |
| hcl_yield | kg/kg | finite, >= 0, optional (default 0) |
| molar_mass | g/mol | finite, > 0 |

## PRODUCTS

1. Order is SOOT, CARBON DIOXIDE, CARBON MONOXIDE, HYDROGEN CHLORIDE, WATER VAPOR, NITROGEN.
2. HYDROGEN CHLORIDE is listed only when its coefficient exceeds 1e-9, giving 5 or 6 entries.
3. Coefficients are written with 15 decimals. The water coefficient may be negative for
   inconsistent yields; it is written as computed.
4. NITROGEN is always 3.7619 times the oxygen coefficient.

## Reading a block back

- The fuel id comes from ` + "`&REAC FUEL='...'`" + ` (default ` + "`Fuel`" + `).
- The fuel ` + "`MW`" + ` is mandatory. Without it nothing is recovered.
- Yields are recovered as coefficient x species molar mass / fuel molar mass (soot x 9500).
- Oxygen comes from the NITROGEN coefficient, or from the second ` + "`NU`" + ` value when the
  PRODUCTS record is unusable. The latter is reported as a warning because NU has 4 decimals.
- Every field that cannot be recovered is reported as a warning, never guessed.

## Saving

The block replaces the existing reaction records (from the first species record through the
REAC record). Scattered records are replaced by one block spanning them. A file without any
reaction records gets the block after ` + "`&HEAD`" + ` (or ` + "`&MESH`" + `), else at the top.
Text outside the replaced span is never changed.
`
